package writeback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidRust(t *testing.T) {
	src := []byte("use bevy::prelude::*;\n\nfn main() {\n    App::new().add_plugins(DefaultPlugins).run();\n}\n")
	assert.NoError(t, Validate(src, "main.rs"))
}

func TestValidate_BrokenRust(t *testing.T) {
	src := []byte("fn main() {\n    let x = ;\n}\n")
	err := Validate(src, "src/main.rs")
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "src/main.rs", ve.FilePath)
	assert.Contains(t, ve.Error(), "src/main.rs:")
}

func TestValidate_UnclosedBrace(t *testing.T) {
	err := Validate([]byte("fn main() {\n    setup();\n"), "main.rs")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidate_UnknownExtensionPassesThrough(t *testing.T) {
	assert.NoError(t, Validate([]byte("this is { not rust"), "README.md"))
	assert.NoError(t, Validate([]byte("[package"), "Cargo.toml"))
}

func TestValidate_ExtensionIsCaseInsensitive(t *testing.T) {
	assert.Error(t, Validate([]byte("fn main( {"), "MAIN.RS"))
}

func TestASTErrors(t *testing.T) {
	assert.Nil(t, ASTErrors([]byte("fn ok() {}\n"), "lib.rs"))
	assert.Nil(t, ASTErrors([]byte("garbage {"), "notes.txt"))

	errs := ASTErrors([]byte("fn a() { let = 1; }\n"), "lib.rs")
	require.NotEmpty(t, errs)
	for _, e := range errs {
		assert.Equal(t, "lib.rs", e.FilePath)
	}
}

func TestValidationError_Format(t *testing.T) {
	e := &ValidationError{FilePath: "lib.rs", Line: 2, Column: 4, Message: "missing }"}
	assert.Equal(t, "lib.rs:3:5: missing }", e.Error())
}
