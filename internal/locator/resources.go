package locator

import (
	"embed"
	"io/fs"

	"github.com/spf13/afero"
)

// EchoFitCompressionShort is the bundled catalog for the Magento demo store
// product page.
const EchoFitCompressionShort = "magento.softwaretestingboard.com/EchoFitCompressionShort.properties"

//go:embed resources
var resources embed.FS

// Resources returns a read-only filesystem over the bundled locator files.
func Resources() afero.Fs {
	sub, err := fs.Sub(resources, "resources")
	if err != nil {
		// "resources" is a compile-time embed root.
		panic(err)
	}
	return afero.NewReadOnlyFs(afero.FromIOFS{FS: sub})
}
