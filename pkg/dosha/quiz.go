package dosha

// QuestionCount is the number of questions in the quiz.
const QuestionCount = 10

// Option is one selectable answer.
type Option struct {
	Text string `json:"text"`
	Type Dosha  `json:"type"`
}

// Question is a quiz question with one option per dosha.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Profile describes a dosha for display once the quiz is complete.
type Profile struct {
	Dosha           Dosha    `json:"dosha"`
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

func options(vata, pitta, kapha string) []Option {
	return []Option{
		{Text: vata, Type: Vata},
		{Text: pitta, Type: Pitta},
		{Text: kapha, Type: Kapha},
	}
}

var questions = []Question{
	{ID: 1, Question: "How would you describe your body build?",
		Options: options("Thin, light, lean", "Medium, athletic, muscular", "Heavy, solid, broad")},
	{ID: 2, Question: "How is your appetite?",
		Options: options("Irregular, unpredictable", "Strong, sharp, intense", "Slow but steady")},
	{ID: 3, Question: "How is your digestion?",
		Options: options("Gas, bloating, constipation", "Acidity, heartburn, quick", "Slow, heavy, sluggish")},
	{ID: 4, Question: "How do you handle temperature?",
		Options: options("Cold hands/feet, hate cold", "Feel hot easily, sweat a lot", "Comfortable with cold, dislike humidity")},
	{ID: 5, Question: "What is your sleep pattern like?",
		Options: options("Light, disturbed, insomnia", "Moderate, intense dreams", "Deep, long, heavy")},
	{ID: 6, Question: "How is your energy through the day?",
		Options: options("Comes in bursts, fluctuates", "Consistent, driven, high", "Slow start, steady stamina")},
	{ID: 7, Question: "How do you respond to stress?",
		Options: options("Anxiety, worry, fear", "Irritability, anger, frustration", "Withdrawal, silence, eating")},
	{ID: 8, Question: "How is your mind and thinking style?",
		Options: options("Fast, creative, scattered", "Sharp, focused, critical", "Calm, steady, slow to change")},
	{ID: 9, Question: "How is your skin?",
		Options: options("Dry, rough, cool", "Warm, reddish, sensitive", "Soft, smooth, oily")},
	{ID: 10, Question: "How do you generally gain/lose weight?",
		Options: options("Hard to gain, easy to lose", "Easy to gain or lose", "Easy to gain, hard to lose")},
}

var profiles = map[Dosha]Profile{
	Vata: {
		Dosha:       Vata,
		Title:       "Vata",
		Subtitle:    "Air & Ether",
		Description: "You are energetic, creative, and flexible like the wind. However, you may tend towards anxiety, dryness, and inconsistency when out of balance.",
		Recommendations: []string{
			"Maintain a consistent daily routine",
			"Eat warm, cooked, nourishing foods (soups, stews)",
			"Avoid cold, dry, and raw foods",
			"Practice grounding yoga and meditation",
			"Keep warm and protect from wind",
		},
	},
	Pitta: {
		Dosha:       Pitta,
		Title:       "Pitta",
		Subtitle:    "Fire & Water",
		Description: "You are fiery, intelligent, and driven. You have a sharp intellect but may be prone to anger, inflammation, and perfectionism if not cooled down.",
		Recommendations: []string{
			"Stay cool and avoid overheating",
			"Eat cooling, sweet, and bitter foods",
			"Avoid spicy, sour, and salty foods",
			"Practice moderation and make time for play",
			"Spend time in nature, especially near water",
		},
	},
	Kapha: {
		Dosha:       Kapha,
		Title:       "Kapha",
		Subtitle:    "Earth & Water",
		Description: "You are stable, loyal, and calm. You provide structure and support but may tend towards sluggishness, weight gain, and attachment if you become too sedentary.",
		Recommendations: []string{
			"Stay active and exercise regularly",
			"Eat light, warm, and spicy foods",
			"Avoid heavy, oily, and sweet foods",
			"Seek stimulation and new experiences",
			"Wake up early and avoid daytime naps",
		},
	},
}

// Questions returns a copy of the quiz questions in display order.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// ProfileFor returns the display profile for d.
func ProfileFor(d Dosha) (Profile, bool) {
	p, ok := profiles[d]
	if !ok {
		return Profile{}, false
	}
	p.Recommendations = append([]string(nil), p.Recommendations...)
	return p, true
}
