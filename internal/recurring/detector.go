// Package recurring flags descriptions of charges that repeat every period.
package recurring

import (
	"strings"

	"github.com/dvloznov/statement-importer/internal/textnorm"
)

// fragments are matched as substrings of the folded, upper-cased description.
var fragments = []string{
	// streaming and media
	"NETFLIX", "SPOTIFY", "DISNEY", "HBO", "MAX.COM", "PRIME VIDEO", "AMAZON PRIME",
	"YOUTUBE PREMIUM", "GOOGLE YOUTUBE", "CRUNCHYROLL", "PARAMOUNT", "MUBI", "NEXTORY", "DEEZER",
	"ICLOUD", "APPLE.COM/BILL", "APPLE.COM BILL", "GOOGLE ONE", "PLAYSTATION PLUS", "XBOX GAME PASS",

	// software
	"GITHUB", "FIGMA", "NOTION", "OPENAI", "CHATGPT", "CLAUDE.AI", "ADOBE", "DIGITALOCEAN",
	"JETBRAINS", "DROPBOX", "CANVA", "OBSIDIAN", "GOOGLE WORKSPACE", "MICROSOFT 365",

	// housing
	"ARRIENDO", "DIVIDENDO", "HIPOTECARIO", "GASTOS COMUNES",

	// utilities and telcos
	"CGE", "ENEL", "AGUAS ANDINAS", "ESVAL", "ESSBIO", "METROGAS", "LIPIGAS",
	"ENTEL", "MOVISTAR", "WOMPAY", "PAGO WOM", "CLARO", "VTR", "MUNDO PACIFICO", "GTD",

	// gyms
	"SMARTFIT", "SMART FIT", "SPORTLIFE", "PACIFIC FITNESS", "ENERGY FITNESS",

	// insurance and health plans
	"SEGURO", "ISAPRE", "FONASA",

	"SUSCRIPCION", "MENSUALIDAD", "CUOTA MENSUAL",
}

// IsRecurring reports whether the description names a known subscription,
// utility, rent or other monthly payment.
func IsRecurring(description string) bool {
	desc := textnorm.Key(description)
	if desc == "" {
		return false
	}
	for _, f := range fragments {
		if strings.Contains(desc, f) {
			return true
		}
	}
	return false
}

// Detector adapts IsRecurring to an interface value.
type Detector struct{}

func (Detector) IsRecurring(description string) bool { return IsRecurring(description) }
