package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/m-mizutani/pdfsaver/pkg/domain/types"
)

// MsgDownloadFailed is the catalog key of the alert shown when a save fails
const MsgDownloadFailed = types.MsgDownloadFailed

var translations = map[string]map[string]string{
	MsgDownloadFailed: {
		"hr":      "Greška pri preuzimanju PDF-a.",
		"bs":      "Greška pri preuzimanju PDF-a.",
		"sr-Latn": "Greška pri preuzimanju PDF-a.",
		"de":      "Fehler beim Herunterladen der PDF-Datei.",
	},
}

func init() {
	for key, langs := range translations {
		for lang, msg := range langs {
			if err := message.SetString(language.MustParse(lang), key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Localize returns the translation of key for lang, or key itself
func Localize(lang language.Tag, key string) string {
	return message.NewPrinter(lang).Sprintf(key)
}
