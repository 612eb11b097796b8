package quiz

import "strings"

// Language selects the localized catalog text.
type Language string

const (
	LangRO Language = "ro"
	LangEN Language = "en"
)

// ParseLanguage returns LangEN for "en" and LangRO for everything else.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(LangEN)) {
		return LangEN
	}
	return LangRO
}

// Option is one selectable answer.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a fixed quiz question with its options.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Category is a quiz in one language.
type Category struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Questions   []Question `json:"questions"`
}

// Genre is a selectable genre filter.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type text struct{ ro, en string }

func (t text) in(lang Language) string {
	if lang == LangEN {
		return t.en
	}
	return t.ro
}

type optionDef struct {
	id   string
	text text
}

type questionDef struct {
	text    text
	options []optionDef
}

type categoryDef struct {
	id          string
	title       text
	description text
	icon        string
	questions   []questionDef
}

func (d categoryDef) localize(lang Language) Category {
	c := Category{
		ID:          d.id,
		Title:       d.title.in(lang),
		Description: d.description.in(lang),
		Icon:        d.icon,
		Questions:   make([]Question, 0, len(d.questions)),
	}
	for i, q := range d.questions {
		opts := make([]Option, 0, len(q.options))
		for _, o := range q.options {
			opts = append(opts, Option{ID: o.id, Text: o.text.in(lang)})
		}
		c.Questions = append(c.Questions, Question{ID: i + 1, Text: q.text.in(lang), Options: opts})
	}
	return c
}

// Categories returns the full catalog in the given language.
func Categories(lang Language) []Category {
	out := make([]Category, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.localize(lang))
	}
	return out
}

// CategoryByID returns one localized category.
func CategoryByID(id string, lang Language) (Category, bool) {
	for _, d := range catalog {
		if d.id == id {
			return d.localize(lang), true
		}
	}
	return Category{}, false
}

// Genres returns the genre filters in the given language.
func Genres(lang Language) []Genre {
	out := make([]Genre, 0, len(genres))
	for _, g := range genres {
		out = append(out, Genre{ID: g.id, Name: g.text.in(lang)})
	}
	return out
}

// GenreName returns the English display name used in prompts.
func GenreName(id string) (string, bool) {
	for _, g := range genres {
		if g.id == id {
			return g.text.en, true
		}
	}
	return "", false
}

var genres = []optionDef{
	{"drama", text{"Dramă", "Drama"}},
	{"comedy", text{"Comedie", "Comedy"}},
	{"thriller", text{"Thriller", "Thriller"}},
	{"horror", text{"Horror", "Horror"}},
	{"scifi", text{"Sci-Fi", "Sci-Fi"}},
	{"romance", text{"Romance", "Romance"}},
	{"action", text{"Acțiune", "Action"}},
	{"adventure", text{"Aventură", "Adventure"}},
	{"fantasy", text{"Fantastic", "Fantasy"}},
	{"mystery", text{"Mister", "Mystery"}},
	{"animation", text{"Animație", "Animation"}},
	{"documentary", text{"Documentar", "Documentary"}},
}

var catalog = []categoryDef{
	{
		id:    "personality",
		title: text{"Profilul Tău", "Your Profile"},
		description: text{
			"Cine ești cu adevărat? O analiză a caracterului tău pentru a găsi filmul care îți oglindește sufletul.",
			"Who are you really? A character analysis to find the movie that mirrors your soul.",
		},
		icon: "🎭",
		questions: []questionDef{
			{
				text: text{"Dacă viața ta ar fi un gen de film, care ar fi acela?", "If your life were a movie genre, what would it be?"},
				options: []optionDef{
					{"a", text{"O dramă serioasă, cu multă emoție", "A slow, intense drama"}},
					{"b", text{"O comedie în care totul merge pe dos", "A comedy where everything goes wrong"}},
					{"c", text{"Un film de mister unde nimic nu e sigur", "A mystery where nothing is certain"}},
					{"d", text{"O aventură într-o lume complet nouă", "A fantasy adventure"}},
				},
			},
			{
				text: text{"Care crezi că e cel mai mare defect al tău?", "What is your biggest flaw?"},
				options: []optionDef{
					{"a", text{"Gândesc prea mult la orice (Overthinking)", "I overthink everything"}},
					{"b", text{"Acționez înainte să gândesc", "I act before I think"}},
					{"c", text{"Mi-e greu să am încredere în oameni", "I find it hard to trust people"}},
					{"d", text{"Visez cu ochii deschiși și uit de realitate", "I daydream too much"}},
				},
			},
			{
				text: text{"Ce contează cel mai mult la un prieten?", "What do you value most in a friend?"},
				options: []optionDef{
					{"a", text{"Să fie acolo orice ar fi", "To always be there"}},
					{"b", text{"Să mă facă să râd", "To make me laugh"}},
					{"c", text{"Să putem vorbi despre orice", "Deep conversations"}},
					{"d", text{"Să fie gata de distracție oricând", "Adventurous spirit"}},
				},
			},
		},
	},
	{
		id:    "mood",
		title: text{"Starea de Spirit", "Mood"},
		description: text{
			"Cum te simți chiar acum? Vom găsi un film care să te vindece, să te amplifice sau să te transporte.",
			"How do you feel right now? We'll find a movie to heal, amplify, or transport you.",
		},
		icon: "🌧️",
		questions: []questionDef{
			{
				text: text{"Câtă energie ai în momentul ăsta?", "What is your energy level right now?"},
				options: []optionDef{
					{"a", text{"Zero, vreau doar să stau întins", "Zero, I just want to lay down"}},
					{"b", text{"Melancolic și pus pe gânduri", "Melancholic and thoughtful"}},
					{"c", text{"Agitat, am nevoie de acțiune", "Restless, I need something moving"}},
					{"d", text{"Super, sunt bine dispus", "Great, I feel happy"}},
				},
			},
			{
				text: text{"De ce ai nevoie acum?", "What do you need right now?"},
				options: []optionDef{
					{"a", text{"Să plâng și să mă descarc", "A good cry"}},
					{"b", text{"Să râd cu lacrimi", "A good laugh"}},
					{"c", text{"Să văd ceva ce mă dă pe spate", "To be shocked"}},
					{"d", text{"Să uit de lumea reală", "To escape reality"}},
				},
			},
			{
				text: text{"Cum e vremea 'în sufletul tău' acum?", "What's the weather like 'inside you'?"},
				options: []optionDef{
					{"a", text{"O furtună gata să înceapă", "Stormy"}},
					{"b", text{"Ceață, nu văd nimic clar", "Foggy"}},
					{"c", text{"Soare și cer senin", "Sunny"}},
					{"d", text{"O ploaie liniștită", "Light rain"}},
				},
			},
		},
	},
	{
		id:    "events",
		title: text{"Ce ai mai făcut?", "What have you been doing?"},
		description: text{
			"Prin ce ai trecut în ultima vreme? Filmele pot oferi perspective noi asupra situațiilor din viața reală.",
			"What have you been through lately? Movies can offer new perspectives on real life.",
		},
		icon: "📅",
		questions: []questionDef{
			{
				text: text{"Cum a fost săptămâna ta până acum?", "How was your week so far?"},
				options: []optionDef{
					{"a", text{"Am reușit ceva important", "I achieved something big"}},
					{"b", text{"M-am certat cu cineva sau m-am despărțit", "Had a fight or a breakup"}},
					{"c", text{"Am fost plecat sau am încercat ceva nou", "Traveled or tried something new"}},
					{"d", text{"Plictisitoare, nimic special", "Boring, same old routine"}},
				},
			},
			{
				text: text{"Ce simți că îți lipsește acum?", "What are you missing most right now?"},
				options: []optionDef{
					{"a", text{"Iubirea / Cineva aproape", "Love"}},
					{"b", text{"O direcție clară în viață", "Direction in life"}},
					{"c", text{"Liniștea, timp pentru mine", "Peace and quiet"}},
					{"d", text{"Puțină adrenalină", "Excitement"}},
				},
			},
			{
				text: text{"Dacă azi ar fi o știre, cum ar suna?", "Headline of your current life?"},
				options: []optionDef{
					{"a", text{"'Haos total, nu știu cum am scăpat'", "'Chaos everywhere'"}},
					{"b", text{"'Liniște înainte de furtună'", "'Calm before the storm'"}},
					{"c", text{"'Am reușit, deși nu credeam!'", "'I did it!'"}},
					{"d", text{"'Aceeași zi, din nou și din nou'", "'Groundhog Day'"}},
				},
			},
		},
	},
	{
		id:    "social",
		title: text{"Cu cine ești?", "Who are you with?"},
		description: text{
			"Cu cine privești filmul? Dinamica grupului (sau lipsa lui) dictează alegerea perfectă.",
			"Who are you watching with? Group dynamics (or lack thereof) dictate the perfect choice.",
		},
		icon: "👥",
		questions: []questionDef{
			{
				text: text{"Cine se uită cu tine?", "Who is with you?"},
				options: []optionDef{
					{"a", text{"Nimeni, e timpul meu", "Nobody, just me"}},
					{"b", text{"Iubitul / Iubita", "My partner"}},
					{"c", text{"Gașca de prieteni", "Friends"}},
					{"d", text{"Familia (părinți, copii)", "Family"}},
				},
			},
			{
				text: text{"Care e atmosfera?", "What's the vibe?"},
				options: []optionDef{
					{"a", text{"Liniște și pace", "Quiet and chill"}},
					{"b", text{"Vrem să comentăm la film", "We want to talk about it"}},
					{"c", text{"Ne plictisim, vrem ceva tare", "Bored, wake us up"}},
					{"d", text{"Tensionată, vrem să ne calmăm", "Tense, we need to relax"}},
				},
			},
			{
				text: text{"Câtă răbdare aveți?", "Attention span?"},
				options: []optionDef{
					{"a", text{"100%, telefonul e pe silent", "100%, focused"}},
					{"b", text{"Vrem ceva pe fundal, mai mult vorbim", "Background noise"}},
					{"c", text{"Puțină, adormim repede", "Low, we get tired easily"}},
					{"d", text{"Vrem doar să se vadă bine, povestea nu contează", "Just visuals"}},
				},
			},
		},
	},
	{
		id:    "time-travel",
		title: text{"Călător în Timp", "Time Traveler"},
		description: text{
			"În ce epocă vrei să evadezi? Nostalgia trecutului sau speranța viitorului.",
			"Which era do you want to escape to? Nostalgia of the past or hope for the future.",
		},
		icon: "⏳",
		questions: []questionDef{
			{
				text: text{"Unde ai vrea să fii teleportat acum?", "Where to teleport?"},
				options: []optionDef{
					{"a", text{"Într-un viitor plin de tehnologie", "High-tech future"}},
					{"b", text{"În anii '80-'90, muzică și stil vechi", "The 80s-90s"}},
					{"c", text{"Pe vremuri (castele, rochii, săbii)", "Old times (Medieval/Victorian)"}},
					{"d", text{"Rămân în prezent, îmi place realitatea", "Here and now"}},
				},
			},
			{
				text: text{"Ce stil să aibă filmul?", "Visual style?"},
				options: []optionDef{
					{"a", text{"Alb-negru, elegant", "Black and white"}},
					{"b", text{"Colorat și modern", "Colorful and modern"}},
					{"c", text{"Realist, ca un documentar", "Raw and realistic"}},
					{"d", text{"Animație sau efecte speciale tari", "Animation / CGI"}},
				},
			},
			{
				text: text{"Ce ritm să aibă?", "Pace?"},
				options: []optionDef{
					{"a", text{"Lent, să am timp să intru în poveste", "Slow burn"}},
					{"b", text{"Rapid, să mă țină în priză", "Fast paced"}},
					{"c", text{"Complicat, să îmi pună mintea la treabă", "Mind bending"}},
					{"d", text{"Clasic, o poveste simplă și frumoasă", "Simple and good"}},
				},
			},
		},
	},
}
