package form

import "github.com/pluqqy/profilectl/pkg/metadata"

// migrateLegacyMetadata removes data superseded by the profile object before
// the patch is merged.
func migrateLegacyMetadata(doc metadata.Document) {
	metadata.DropLegacyUserImage(doc)
}
