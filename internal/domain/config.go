package domain

// KeyPrefix namespaces every key hitreport writes to the shared store.
const KeyPrefix = "hitreport:"

// MaxViewableLength is the longest hit sequence the sequence viewer accepts.
const MaxViewableLength = 10000

// ViewDefaults holds presentation settings shared by the renderer and exporters.
type ViewDefaults struct {
	Locale           string
	VeryBigHits      int
	FASTALineWidth   int
	RenderCacheSize  int
	ExportTimeoutSec int
}

// DefaultViewDefaults returns the settings used when config leaves them unset.
func DefaultViewDefaults() ViewDefaults {
	return ViewDefaults{
		Locale:           "en",
		VeryBigHits:      250,
		FASTALineWidth:   60,
		RenderCacheSize:  4096,
		ExportTimeoutSec: 30,
	}
}
