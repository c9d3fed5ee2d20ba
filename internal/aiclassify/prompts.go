package aiclassify

import (
	"fmt"
	"strings"

	"github.com/dvloznov/statement-importer/internal/domain"
)

const merchantExamples = `Examples of Chilean bank statement descriptions:

Groceries: UNIMARC, FOOD MARKET, PRONTO COPEC, TUU MARKET, ALMACEN, LIDER, JUMBO, TOTTUS, SANTA ISABEL
Transport: PAYU UBER TRIP, PAYU *UBER, RECORRIDO, LATAM.COM, SKY AIRLINE, COPEC (fuel)
Delivery: PAYU UBER EATS, RAPPI, PEDIDOSYA, CORNERSHOP
Restaurants: NIU SUSHI, CERVECERIA, CAFETERIA, STARBUCKS, JUAN VALDEZ
Streaming: MUBI, GOOGLE YOUTUBE, NEXTORY, NETFLIX, SPOTIFY, HBO MAX, AMAZON PRIME, CRUNCHYROLL
Work Tools: FIGMA, DIGITALOCEAN, CLAUDE.AI, OBSIDIAN, GITHUB, NOTION, AWS, GOOGLE CLOUD
Utilities: PAGO CGE, PAGO WOM, WOMPAY, electricity, water, gas, internet, phone
Games: PLAYSTATION NETWORK, PSN, STEAM, NINTENDO, XBOX, DISCORD, EPIC GAMES
Cinema: CINEPLANET, CINES MOVILAND, CINEMARK, CINEPOLIS
Health: SALCOBRAND, CRUZ VERDE, AHUMADA, pharmacies
Books: DIGITAL PUBLICATION, KINDLE, BUSCALIBRE, ANTARTICA
Decor: CASAIDEAS, IKEA, HOMY, SODIMAC, furniture
Clothing: RIPLEY, FALABELLA, ZARA, H&M, PARIS
Investments: BINANCE, BUDA, crypto, stocks
Fitness: fencing clubs, gyms, SMARTFIT
Rent: AIRBNB, rent transfers
Beauty: hairdresser, barber, spa, manicure
Laundry: laundry, dry cleaning
Concerts: PUNTOTICKET, TICKETMASTER, live events

Ambiguous cases go to "Other": APPLE.COM BILL, MERCADOPAGO without context,
transfers to people without context.`

// buildPrompt renders the batch request. Each item lists only the categories
// admissible for its transaction type.
func buildPrompt(items []Item) string {
	var b strings.Builder

	b.WriteString("You categorize Chilean bank transactions using merchant names and keywords.\n\n")
	fmt.Fprintf(&b, "Categorize the following %d transactions.\n\n", len(items))
	b.WriteString(merchantExamples)
	b.WriteString("\n\nTransactions:\n")

	for _, it := range items {
		t := domain.TxCharge
		kind := "Expense (cargo)"
		if it.TransactionType == domain.TxCredit.Wire() {
			t = domain.TxCredit
			kind = "Income (abono)"
		}
		fmt.Fprintf(&b, "%d. Type: %s | Description: %q | Allowed categories: %s\n",
			it.Index, kind, it.Description, joinCategories(domain.AdmissibleCategories(t)))
	}

	b.WriteString("\nValid categories (use EXACTLY one of these names):\n")
	for i, c := range domain.Categories() {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, c)
	}

	b.WriteString("\nRules:\n")
	b.WriteString("1. Match keywords partially: \"PLAYSTATION NETWORK SAN MAT\" contains PLAYSTATION, so it is Games.\n")
	b.WriteString("2. Income (abono) may only be Salary, Extra Income or Other.\n")
	b.WriteString("3. Expenses (cargo) may never be Salary or Extra Income.\n")
	b.WriteString("4. Prefer a specific category. Use Other only when nothing fits.\n")
	b.WriteString("5. The index is the number shown before each transaction.\n\n")

	b.WriteString("Respond ONLY with JSON of this exact shape:\n")
	b.WriteString(`{"categories": [{"index": 0, "category": "Games"}, {"index": 1, "category": "Other"}]}`)
	b.WriteString("\nDo NOT wrap the response in code fences.\n")

	return b.String()
}

func joinCategories(cs []domain.Category) string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
