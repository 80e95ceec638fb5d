package api

// Feature is a Bevy cargo feature flag, spelled as in Cargo.toml.
type Feature string

const (
	FeatureDefault            Feature = "default"
	FeatureBevyAudio          Feature = "bevy_audio"
	FeatureBevyGilrs          Feature = "bevy_gilrs"
	FeatureBevyWinit          Feature = "bevy_winit"
	FeatureRender             Feature = "render"
	FeaturePng                Feature = "png"
	FeatureHdr                Feature = "hdr"
	FeatureVorbis             Feature = "vorbis"
	FeatureX11                Feature = "x11"
	FeatureFilesystemWatcher  Feature = "filesystem_watcher"
	FeatureTraceChrome        Feature = "trace_chrome"
	FeatureTraceTracy         Feature = "trace_tracy"
	FeatureWayland            Feature = "wayland"
	FeatureWgpuTrace          Feature = "wgpu_trace"
	FeatureBevyCiTesting      Feature = "bevy_ci_testing"
	FeatureBevySprite         Feature = "bevy_sprite"
	FeatureDynamic            Feature = "dynamic"
	FeatureBevyUI             Feature = "bevy_ui"
	FeatureTga                Feature = "tga"
	FeatureSerialize          Feature = "serialize"
	FeatureMp3                Feature = "mp3"
	FeatureBevyCorePipeline   Feature = "bevy_core_pipeline"
	FeatureWav                Feature = "wav"
	FeatureTrace              Feature = "trace"
	FeatureSubpixelGlyphAtlas Feature = "subpixel_glyph_atlas"
	FeatureBmp                Feature = "bmp"
	FeatureBevyGltf           Feature = "bevy_gltf"
	FeatureDds                Feature = "dds"
	FeatureBevyDynamicPlugin  Feature = "bevy_dynamic_plugin"
	FeatureBevyRender         Feature = "bevy_render"
	FeatureBevyText           Feature = "bevy_text"
	FeatureBevyAsset          Feature = "bevy_asset"
	FeatureFlac               Feature = "flac"
	FeatureBevyPbr            Feature = "bevy_pbr"
	FeatureJpeg               Feature = "jpeg"
	FeatureBevyDylib          Feature = "bevy_dylib"
)

var knownFeatures = map[Feature]struct{}{
	FeatureDefault: {}, FeatureBevyAudio: {}, FeatureBevyGilrs: {}, FeatureBevyWinit: {},
	FeatureRender: {}, FeaturePng: {}, FeatureHdr: {}, FeatureVorbis: {}, FeatureX11: {},
	FeatureFilesystemWatcher: {}, FeatureTraceChrome: {}, FeatureTraceTracy: {},
	FeatureWayland: {}, FeatureWgpuTrace: {}, FeatureBevyCiTesting: {}, FeatureBevySprite: {},
	FeatureDynamic: {}, FeatureBevyUI: {}, FeatureTga: {}, FeatureSerialize: {}, FeatureMp3: {},
	FeatureBevyCorePipeline: {}, FeatureWav: {}, FeatureTrace: {}, FeatureSubpixelGlyphAtlas: {},
	FeatureBmp: {}, FeatureBevyGltf: {}, FeatureDds: {}, FeatureBevyDynamicPlugin: {},
	FeatureBevyRender: {}, FeatureBevyText: {}, FeatureBevyAsset: {}, FeatureFlac: {},
	FeatureBevyPbr: {}, FeatureJpeg: {}, FeatureBevyDylib: {},
}

// Known reports whether f is a feature flag Bevy declares.
func (f Feature) Known() bool {
	_, ok := knownFeatures[f]
	return ok
}
