package writeback

import (
	"fmt"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Origin is the byte range of a construct in a source file.
type Origin struct {
	FilePath  string
	StartByte uint32
	EndByte   uint32
}

// Splice replaces the byte range identified by origin with newContent in the
// file on fs. The spliced result is validated before anything is written, and
// the write is atomic: content goes to a temp file first, then is renamed.
func Splice(fs billy.Filesystem, origin Origin, newContent []byte) error {
	src, err := util.ReadFile(fs, origin.FilePath)
	if err != nil {
		return fmt.Errorf("read source %s: %w", origin.FilePath, err)
	}

	start := origin.StartByte
	end := origin.EndByte

	if int(start) > len(src) || int(end) > len(src) || start > end {
		return fmt.Errorf("invalid byte range [%d:%d] for file of length %d", start, end, len(src))
	}

	// result = prefix + newContent + suffix
	result := make([]byte, 0, int(start)+len(newContent)+len(src)-int(end))
	result = append(result, src[:start]...)
	result = append(result, newContent...)
	result = append(result, src[end:]...)

	if err := Validate(result, origin.FilePath); err != nil {
		return err
	}

	// Atomic write: temp file in same dir, then rename
	tmp, err := util.TempFile(fs, path.Dir(origin.FilePath), ".potoo-splice-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(result); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}

	// Preserve original file permissions where the filesystem supports it
	if ch, ok := fs.(billy.Change); ok {
		if info, err := fs.Stat(origin.FilePath); err == nil {
			_ = ch.Chmod(tmpName, info.Mode())
		}
	}

	if err := fs.Rename(tmpName, origin.FilePath); err != nil {
		_ = fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", origin.FilePath, err)
	}

	return nil
}
