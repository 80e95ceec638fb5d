package templates

import "github.com/agentic-research/potoo/api"

// Game is a small asteroids-style shooter: a player ship that moves and
// fires, and enemy ships that spawn at the screen edges.
func Game(name string) *api.Model {
	if name == "" {
		name = "bevy_test"
	}
	m := named(name, api.KindApp)

	m.Components = []api.Component{
		{
			Name: "Player",
			Fields: []api.Field{
				{Name: "velocity", Type: "Vec3"},
				{Name: "rotation_speed", Type: "f32"},
				{Name: "shooting_timer", Type: "Option<f32>"},
			},
			IsReflected: true,
		},
		{Name: "Bullet"},
		{Name: "OtherShip"},
	}

	// watch_for_changes lets the asset server pick up edited sprites.
	m.Plugins = []api.Plugin{{
		Name:    "DefaultPlugins.set(AssetPlugin{watch_for_changes: true, ..default()})",
		IsGroup: true,
	}}

	m.StartupSystems = []api.System{hotSystem("setup",
		[]api.Param{
			{Name: "mut commands", Type: "Commands"},
			{Name: "asset_server", Type: "Res<AssetServer>"},
		}, `
commands.spawn(Camera2dBundle::default());

// player
let ship_handle = asset_server.load("ship_C.png");
commands
.spawn(SpriteBundle {
    texture: ship_handle,
    ..default()
})
.insert(Player {
    velocity: Vec3::ZERO,
    rotation_speed: f32::to_radians(180.0),
    shooting_timer: None,
});
`)}

	m.Systems = []api.System{
		hotSystem("player_movement_system", []api.Param{
			{Name: "keyboard_input", Type: "Res<Input<KeyCode>>"},
			{Name: "mut query", Type: "Query<(&Player, &mut Transform)>"},
			{Name: "time", Type: "Res<Time>"},
		}, `const SPEED: f32 = 500.0;

let (ship, mut transform) = query.single_mut();

let mut rotation_factor = 0.0;
let mut movement_factor = 0.0;

if keyboard_input.pressed(KeyCode::Left) {
    rotation_factor += 1.0;
}

if keyboard_input.pressed(KeyCode::Right) {
    rotation_factor -= 4.0;
}

if keyboard_input.pressed(KeyCode::Up) {
    movement_factor += 1.0;
}

// rotate around the Z axis, perpendicular to the screen
transform.rotate_z(rotation_factor * ship.rotation_speed * time.delta_seconds());

let movement_direction = transform.rotation * Vec3::Y;
let movement_distance = movement_factor * SPEED * time.delta_seconds();
let translation_delta = movement_direction * movement_distance;
transform.translation += translation_delta;

// keep the ship inside the level bounds
let extents = Vec3::from((BOUNDS / 2.0, 0.0));
transform.translation = transform.translation.min(extents).max(-extents);`),

		hotSystem("player_shooting_system", []api.Param{
			{Name: "mut commands", Type: "Commands"},
			{Name: "keyboard_input", Type: "Res<Input<KeyCode>>"},
			{Name: "query", Type: "Query<&Transform, With<Player>>"},
		}, `const SIZE: f32 = 10.0;

if keyboard_input.just_pressed(KeyCode::Space) {
    if let Ok(tfm) = query.get_single() {
        commands
            .spawn(SpriteBundle {
                transform: *tfm,
                sprite: Sprite {
                    color: Color::rgb(0.9, 0.8, 0.0),
                    custom_size: Some(Vec2::new(SIZE, SIZE)),
                    ..Default::default()
                },
                ..Default::default()
            })
            .insert(Bullet);
    }
}`),

		hotSystem("bullet_movement_system", []api.Param{
			{Name: "mut commands", Type: "Commands"},
			{Name: "mut query", Type: "Query<(Entity, &mut Transform), With<Bullet>>"},
			{Name: "cam", Type: "Query<&Camera>"},
			{Name: "time", Type: "Res<Time>"},
		}, `let screen_size = cam.single().logical_viewport_size().unwrap() * 0.5;
let speed = 500.0;
for (entity, mut tfm) in &mut query {
    let x = tfm
        .rotation
        .mul_vec3(Vec3::new(0.0, speed * time.delta_seconds(), 0.0));
    tfm.translation += x;

    if utilities::is_outside_bounds(
        tfm.translation.truncate(),
        (
            (-screen_size.x),
            screen_size.y,
            screen_size.x,
            (-screen_size.y),
        ),
    ) {
        log::info!("pufff");
        commands.entity(entity).despawn();
    }
}`),

		hotSystem("bullet_hit_system", []api.Param{
			{Name: "mut commands", Type: "Commands"},
			{Name: "bullet_query", Type: "Query<&Transform, With<Bullet>>"},
			{Name: "ship_query", Type: "Query<(Entity, &Transform), With<OtherShip>>"},
		}, `for bullet_tfm in bullet_query.iter() {
    for (entity, ship_tfm) in ship_query.iter() {
        if collide_aabb::collide(
            bullet_tfm.translation,
            Vec2::new(10.0, 10.0),
            ship_tfm.translation,
            Vec2::new(30.0, 30.0),
        )
        .is_some()
        {
            log::info!("BUUMMMM");
            commands.entity(entity).despawn();
        }
    }
}`),

		hotSystem("spawn_other_ships", []api.Param{
			{Name: "mut commands", Type: "Commands"},
			{Name: "asset_server", Type: "Res<AssetServer>"},
			{Name: "others", Type: "Query<(Entity, &Transform), With<OtherShip>>"},
			{Name: "cam", Type: "Query<&Camera>"},
		}, `const MARGIN: f32 = 30.0;
const MIN_SHIP_COUNT: usize = 10;

let screen_size = cam.single().logical_viewport_size().unwrap() * 0.5;
let mut other_ships_count = 0;

for (entity, tfm) in others.iter() {
    if utilities::is_outside_bounds(
        tfm.translation.truncate(),
        (
            (-screen_size.x) - MARGIN,
            screen_size.y + MARGIN,
            screen_size.x + MARGIN,
            (-screen_size.y) - MARGIN,
        ),
    ) {
        commands.entity(entity).despawn();
    } else {
        other_ships_count += 1;
    }
}

if other_ships_count < MIN_SHIP_COUNT {
    let x = if thread_rng().gen::<bool>() {
        thread_rng().gen_range(((-screen_size.x) - MARGIN)..(-screen_size.x))
    } else {
        thread_rng().gen_range(screen_size.x..(screen_size.x + MARGIN))
    };
    let y = if thread_rng().gen::<bool>() {
        thread_rng().gen_range(((-screen_size.y) - MARGIN)..(-screen_size.y))
    } else {
        thread_rng().gen_range(screen_size.y..(screen_size.y + MARGIN))
    };
    let dir = thread_rng().gen_range(0.0f32..360.0f32);
    let mut transform = Transform::from_xyz(x, y, 0.0);
    transform.rotate_z(dir.to_radians());

    commands
        .spawn(SpriteBundle {
            texture: asset_server.load("enemy_A.png"),
            transform,
            ..default()
        })
        .insert(OtherShip);
}`),

		hotSystem("move_other_ships", []api.Param{
			{Name: "time", Type: "Res<Time>"},
			{Name: "mut query", Type: "Query<&mut Transform, With<OtherShip>>"},
		}, `const SPEED: f32 = 100.0;
for mut tfm in &mut query {
    let x = tfm
        .rotation
        .mul_vec3(Vec3::new(0.0, SPEED * time.delta_seconds(), 0.0));

    tfm.translation += x;
}`),
	}

	m.Custom = []api.Custom{{
		Target: api.CustomSystem,
		Name:   "utilities.rs",
		Body: `use bevy::prelude::*;

pub const BOUNDS: Vec2 = Vec2::new(1200.0, 640.0);

pub(crate) fn is_outside_bounds(point: Vec2, bounds: (f32, f32, f32, f32)) -> bool {
    let (left, top, right, bottom) = bounds;
    point.x < left || point.x > right || point.y < bottom || point.y > top
}
`,
	}}

	m.Imports = []api.Import{
		{Used: api.UsedSystems, Dependency: api.Dependency{
			Name: "rand", Source: api.CrateSource("0.8"), Paths: []string{"thread_rng", "Rng"},
		}},
		{Used: api.UsedSystems, Dependency: api.Dependency{
			Name: "bevy", Source: api.CrateSource("0.9"), Paths: []string{"sprite::collide_aabb"},
		}},
		{Used: api.UsedSystems, Dependency: api.Dependency{
			Name: "crate", Source: api.Source{Kind: api.SourceInternal}, Paths: []string{"utilities::BOUNDS"},
		}},
		{Used: api.UsedSystems, Dependency: api.Dependency{
			Name: "components", Source: api.Source{Kind: api.SourceInternal}, Paths: []string{"*"},
		}},
	}

	// The dynamic feature links bevy as a dylib for fast reloads.
	m.Settings.Features = []api.Feature{api.FeatureDynamic}
	return m
}
