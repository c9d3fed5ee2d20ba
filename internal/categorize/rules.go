package categorize

import "github.com/dvloznov/statement-importer/internal/domain"

// keywordRule maps description fragments to a category. Fragments are
// upper-case and matched as substrings.
type keywordRule struct {
	category  domain.Category
	fragments []string
}

// Order matters inside a tier: the first rule with a matching fragment wins,
// so more specific merchants (UBER EATS) come before broader ones (UBER).

var expenseHigh = []keywordRule{
	{domain.CategoryDelivery, []string{"UBER EATS", "UBEREATS", "RAPPI", "PEDIDOSYA", "PEDIDOS YA", "CORNERSHOP", "DIDI FOOD", "JUSTO"}},
	{domain.CategoryGames, []string{"PLAYSTATION", "PSN", "STEAM", "NINTENDO", "XBOX", "EPIC GAMES", "DISCORD", "RIOT GAMES", "BLIZZARD"}},
	{domain.CategoryStreaming, []string{"NETFLIX", "SPOTIFY", "MUBI", "YOUTUBE", "NEXTORY", "HBO", "MAX.COM", "AMAZON PRIME", "PRIME VIDEO", "DISNEY", "CRUNCHYROLL", "PARAMOUNT", "STAR PLUS", "DEEZER", "TIDAL", "DRUMSCRIBE"}},
	{domain.CategoryWorkTools, []string{"FIGMA", "DIGITALOCEAN", "CLAUDE.AI", "ANTHROPIC", "OPENAI", "CHATGPT", "OBSIDIAN", "GITHUB", "NOTION", "AWS", "AMAZON WEB SERVICES", "GOOGLE CLOUD", "GOOGLE WORKSPACE", "JETBRAINS", "ADOBE", "CANVA", "VERCEL"}},
	{domain.CategoryGroceries, []string{"UNIMARC", "FOOD MARKET", "PRONTO COPEC", "ISIDORA.COPEC", "TUU MARKET", "LIDER", "JUMBO", "TOTTUS", "SANTA ISABEL", "ACUENTA", "MAYORISTA 10", "OK MARKET"}},
	{domain.CategoryTransport, []string{"UBER TRIP", "PAYU *UBER", "CABIFY", "DIDI", "RECORRIDO", "BIPAYTEMUCO", "LATAM.COM", "LATAM AIRLINES", "SKY AIRLINE", "JETSMART", "TUU TRANSPORTES", "TURBUS", "PULLMAN", "METRO DE SANTIAGO", "RED MOVILIDAD", "COPEC", "SHELL", "PETROBRAS", "ARAMCO", "AUTOPISTA", "COSTANERA NORTE", "ESTACIONAMIENTO"}},
	{domain.CategoryRestaurants, []string{"NIU SUSHI", "DELI A VARAS", "CERVECERA", "CERVECERIA", "RATIO COFFEE", "WONDERLAND CAFE", "CAFETERIA", "UDON", "STARBUCKS", "JUAN VALDEZ", "MCDONALDS", "BURGER KING", "DOMINO", "PAPA JOHNS", "TARAGUI", "DOGGIS"}},
	{domain.CategoryCinema, []string{"CINEPLANET", "CINES MOVILAND", "MOVILAND", "CINEMARK", "CINEPOLIS", "CINE HOYTS", "HOYTS"}},
	{domain.CategoryConcerts, []string{"PUNTOTICKET", "TICKETMASTER", "PASSLINE", "TICKETPLUS", "ENTRADAS.CL"}},
	{domain.CategoryHealth, []string{"SALCOBRAND", "CRUZ VERDE", "C. VERDE", "AHUMADA", "FARMACIA", "DR SIMI", "CLINICA", "ISAPRE", "FONASA", "INTEGRAMEDICA", "REDSALUD", "LABORATORIO"}},
	{domain.CategoryBooks, []string{"DIGITAL PUBLICATION", "KINDLE", "BUSCALIBRE", "ANTARTICA", "LIBRERIA", "FEDERICO"}},
	{domain.CategoryDecor, []string{"CASAIDEAS", "IKEA", "HOMY", "SODIMAC", "EASY", "ROSEN", "CIC "}},
	{domain.CategoryClothing, []string{"RIPLEY", "FALABELLA.COM", "TIENDA FALABELLA", "ZARA", "H&M", "PARIS", "UNIQLO", "NIKE", "ADIDAS", "LA POLAR", "HUSH PUPPIES"}},
	{domain.CategoryFitness, []string{"SMARTFIT", "SMART FIT", "SPORTLIFE", "PACIFIC FITNESS", "ENERGY FITNESS", "ESGRIMA", "ARAUCANIA FEN", "DECATHLON"}},
	{domain.CategoryInvestments, []string{"BINANCE", "BUDA.COM", "FINTUAL", "RACIONAL", "CRIPTO", "CRYPTO", "BOLSA DE SANTIAGO", "CORREDORA"}},
	{domain.CategoryRent, []string{"AIRBNB", "ARRIENDO", "DIVIDENDO", "HIPOTECARIO", "GASTOS COMUNES", "COMUNIDAD EDIFICIO"}},
	{domain.CategoryUtilities, []string{"PAGO CGE", "CGE ", "ENEL", "AGUAS ANDINAS", "ESVAL", "ESSBIO", "METROGAS", "LIPIGAS", "ABASTIBLE", "GASCO", "PAGO WOM", "WOMPAY", "ENTEL", "MOVISTAR", "CLARO ", "VTR", "MUNDO PACIFICO", "GTD"}},
	{domain.CategoryBeauty, []string{"PELUQUERIA", "BARBERIA", "BARBER", "MANICURE", "PRELUDIO", "MAICAO", "DBS BEAUTY", "SPA "}},
	{domain.CategoryLaundry, []string{"LAVANDERIA", "TINTORERIA", "LAVASECO", "LAVAMATIC"}},
	{domain.CategorySavings, []string{"CUENTA AHORRO", "CTA AHORRO", "AHORRO VIVIENDA", "DEPOSITO A PLAZO", "APV"}},
}

var expenseMedium = []keywordRule{
	{domain.CategoryDelivery, []string{"DELIVERY", "PEDIDO"}},
	{domain.CategoryTransport, []string{"UBER", "TAXI", "BENCINA", "COMBUSTIBLE", "PEAJE", "BUS ", "TRANSPORTE", "AEROLINEA", "PARKING"}},
	{domain.CategoryGroceries, []string{"SUPERMERCADO", "SUPERMERC", "MINIMARKET", "ALMACEN", "VERDULERIA", "CARNICERIA", "PANADERIA", "MARKET"}},
	{domain.CategoryRestaurants, []string{"RESTAURANT", "RESTO", "SUSHI", "PIZZA", "BURGER", "CAFE", "COFFEE", "BAR ", "PUB ", "FUENTE DE SODA", "COMIDA"}},
	{domain.CategoryStreaming, []string{"STREAMING", "GOOGLE PLAY"}},
	{domain.CategoryGames, []string{"GAMES", "GAMING", "JUEGO"}},
	{domain.CategoryHealth, []string{"MEDIC", "DENTAL", "OPTICA", "SALUD", "KINESIOLOG", "PSICOLOG"}},
	{domain.CategoryBeauty, []string{"ESTETICA", "COSMETIC", "BELLEZA", "SALON"}},
	{domain.CategoryFitness, []string{"GIMNASIO", "GYM", "FITNESS", "DEPORTE", "CROSSFIT", "YOGA", "PILATES"}},
	{domain.CategoryClothing, []string{"ROPA", "VESTUARIO", "ZAPATERIA", "CALZADO", "MODA"}},
	{domain.CategoryDecor, []string{"MUEBLE", "DECORACION", "HOGAR", "FERRETERIA"}},
	{domain.CategoryBooks, []string{"LIBRO", "BOOK", "EDITORIAL"}},
	{domain.CategoryCinema, []string{"CINE"}},
	{domain.CategoryConcerts, []string{"TICKET", "CONCIERTO", "EVENTO"}},
	{domain.CategoryUtilities, []string{"ELECTRICIDAD", "AGUA POTABLE", "GAS NATURAL", "INTERNET", "TELEFONIA", "CELULAR", "PLAN MOVIL", "CUENTA LUZ"}},
	{domain.CategoryRent, []string{"ARRIEND", "ALQUILER", "CANON"}},
	{domain.CategoryWorkTools, []string{"SOFTWARE", "HOSTING", "DOMINIO", "SAAS", "CLOUD"}},
	{domain.CategoryInvestments, []string{"INVERSION", "FONDO MUTUO", "ACCIONES", "ETF"}},
	{domain.CategorySavings, []string{"AHORRO"}},
}

var incomeHigh = []keywordRule{
	{domain.CategorySalary, []string{"REMUNERACION", "SUELDO", "NOMINA", "PAGO DE NOMINA", "PAGO REMUN", "ANTICIPO SUELDO", "LIQUIDACION DE SUELDO"}},
	{domain.CategoryExtraIncome, []string{"DEVOLUCION", "REEMBOLSO", "REINTEGRO", "BONIFICACION", "AGUINALDO", "HONORARIOS", "DIVIDENDOS RECIBIDOS", "INTERESES GANADOS", "RESCATE FONDO", "CASHBACK"}},
}

var incomeMedium = []keywordRule{
	{domain.CategorySalary, []string{"SALARIO", "REMUN", "PAGO DE SUELDOS"}},
	{domain.CategoryExtraIncome, []string{"INTERES", "VENTA", "PREMIO", "ARRIENDO RECIBIDO"}},
}
