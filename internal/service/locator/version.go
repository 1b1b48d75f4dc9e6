package locator

import (
	"os"
	"path/filepath"

	"github.com/oshokin/bdupdater/internal/domain/discord"
)

// ReadVersion returns the trimmed contents of file inside installDir,
// or "unknown" when it cannot be read.
func ReadVersion(installDir, file string) string {
	contents, err := os.ReadFile(filepath.Join(installDir, file))
	if err != nil {
		return discord.UnknownVersion
	}

	return discord.NormalizeVersion(string(contents))
}
