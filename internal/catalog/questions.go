package catalog

import "dvg-portal/internal/domain"

// SubjectMeta carries display metadata for a study subject.
type SubjectMeta struct {
	Name  string
	Icon  string
	Color string
}

// SubjectInfo maps each subject to its display metadata.
var SubjectInfo = map[domain.Subject]SubjectMeta{
	domain.SubjectEnglish: {Name: "Angļu valoda", Icon: "🇬🇧", Color: "#3b82f6"},
	domain.SubjectLatvian: {Name: "Latviešu valoda", Icon: "🇱🇻", Color: "#ef4444"},
	domain.SubjectMath:    {Name: "Matemātika", Icon: "🔢", Color: "#8b5cf6"},
	domain.SubjectSocial:  {Name: "Sociālās zinātnes", Icon: "🌍", Color: "#10b981"},
}

// Questions is the static multiple-choice catalog, six questions per subject.
var Questions = []domain.QuizQuestion{
	// Angļu valoda
	{ID: 1, Subject: domain.SubjectEnglish, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: `Choose the correct form: "She ___ to school every day."`, Options: []string{"go", "goes", "going", "gone"}, Correct: 1},
	{ID: 2, Subject: domain.SubjectEnglish, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: `What is the past tense of "run"?`, Options: []string{"runned", "ran", "ranned", "runs"}, Correct: 1},
	{ID: 3, Subject: domain.SubjectEnglish, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: "Which sentence is grammatically correct?", Options: []string{"I have went there.", "I have gone there.", "I has gone there.", "I gone there."}, Correct: 1},
	{ID: 4, Subject: domain.SubjectEnglish, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: `"Despite the rain, they ___ the game." Choose the correct option.`, Options: []string{"finished", "finish", "finishing", "have finish"}, Correct: 0},
	{ID: 5, Subject: domain.SubjectEnglish, Difficulty: domain.DifficultyHard, XP: 30, Prompt: `What does "ambiguous" mean?`, Options: []string{"Very clear", "Open to more than one interpretation", "Completely wrong", "Highly emotional"}, Correct: 1},
	{ID: 6, Subject: domain.SubjectEnglish, Difficulty: domain.DifficultyHard, XP: 30, Prompt: `Identify the correct passive voice: "The letter ___ yesterday."`, Options: []string{"was written", "is written", "were written", "written"}, Correct: 0},

	// Latviešu valoda
	{ID: 7, Subject: domain.SubjectLatvian, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: "Kurš no šiem vārdiem ir lietvārds?", Options: []string{"skriet", "skaists", "galds", "ātri"}, Correct: 2},
	{ID: 8, Subject: domain.SubjectLatvian, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: `Kādā dzimtē ir vārds "māja"?`, Options: []string{"Vīriešu", "Sieviešu", "Vidus", "Tam nav dzimtes"}, Correct: 1},
	{ID: 9, Subject: domain.SubjectLatvian, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: "Kurš teikums ir pareizs?", Options: []string{"Es eju uz skola.", "Es eju uz skolu.", "Es iet uz skolu.", "Es eju uz skolas."}, Correct: 1},
	{ID: 10, Subject: domain.SubjectLatvian, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: "Kas ir metafora?", Options: []string{`Tiešs salīdzinājums ar "kā"`, `Netiešs salīdzinājums bez "kā"`, "Vārdu atkārtojums", "Jautājums tekstā"}, Correct: 1},
	{ID: 11, Subject: domain.SubjectLatvian, Difficulty: domain.DifficultyHard, XP: 30, Prompt: "Kurš no šiem ir salikts teikums?", Options: []string{"Saule spīd.", "Bērns skrien ātri.", "Lietus lija, un bērni palika mājās.", "Skaistā diena."}, Correct: 2},
	{ID: 12, Subject: domain.SubjectLatvian, Difficulty: domain.DifficultyHard, XP: 30, Prompt: `Ko nozīmē "aliterācija"?`, Options: []string{"Atskaņu izmantošana", "Viena skaņas atkārtošana rindā", "Pretējo jēdzienu salīdzināšana", "Teikuma inversija"}, Correct: 1},

	// Matemātika
	{ID: 13, Subject: domain.SubjectMath, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: "Cik ir 15% no 200?", Options: []string{"25", "30", "20", "35"}, Correct: 1},
	{ID: 14, Subject: domain.SubjectMath, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: "Atrisini: 3x + 6 = 18", Options: []string{"x = 2", "x = 4", "x = 6", "x = 3"}, Correct: 1},
	{ID: 15, Subject: domain.SubjectMath, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: "Kāda ir riņķa laukuma formula?", Options: []string{"2πr", "πr²", "πd", "2πr²"}, Correct: 1},
	{ID: 16, Subject: domain.SubjectMath, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: "Atrisini: x² - 9 = 0", Options: []string{"x = 3", "x = -3", "x = ±3", "x = 9"}, Correct: 2},
	{ID: 17, Subject: domain.SubjectMath, Difficulty: domain.DifficultyHard, XP: 30, Prompt: "Kas ir sin(30°)?", Options: []string{"√3/2", "1/2", "√2/2", "1"}, Correct: 1},
	{ID: 18, Subject: domain.SubjectMath, Difficulty: domain.DifficultyHard, XP: 30, Prompt: "Logaritms: log₂(64) = ?", Options: []string{"4", "5", "6", "8"}, Correct: 2},

	// Sociālās zinātnes
	{ID: 19, Subject: domain.SubjectSocial, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: "Kurā gadā Latvija atjaunoja neatkarību?", Options: []string{"1989", "1990", "1991", "1993"}, Correct: 2},
	{ID: 20, Subject: domain.SubjectSocial, Difficulty: domain.DifficultyEasy, XP: 10, Prompt: "Kas ir demokrātija?", Options: []string{"Valdīšana ar armijas palīdzību", "Tautas vara", "Viena cilvēka vara", "Reliģiska vadība"}, Correct: 1},
	{ID: 21, Subject: domain.SubjectSocial, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: "Cik deputāti ir Latvijas Saeimā?", Options: []string{"50", "75", "100", "120"}, Correct: 2},
	{ID: 22, Subject: domain.SubjectSocial, Difficulty: domain.DifficultyMedium, XP: 20, Prompt: "Ko pēta ekonomika?", Options: []string{"Dabas parādības", "Ražošanu, sadali un patēriņu", "Cilvēku psiholoģiju", "Vēsturiskus notikumus"}, Correct: 1},
	{ID: 23, Subject: domain.SubjectSocial, Difficulty: domain.DifficultyHard, XP: 30, Prompt: "Kas ir inflācija?", Options: []string{"Valūtas kursa pieaugums", "Cenu vispārējs pieaugums", "Bezdarba samazināšanās", "Eksporta pieaugums"}, Correct: 1},
	{ID: 24, Subject: domain.SubjectSocial, Difficulty: domain.DifficultyHard, XP: 30, Prompt: "Kurš ir ANO Drošības padomes pastāvīgais loceklis?", Options: []string{"Vācija", "Japāna", "Francija", "Austrālija"}, Correct: 2},
}

// QuestionsForSubject filters the catalog by subject, preserving catalog order.
func QuestionsForSubject(subject domain.Subject) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, 0, 6)
	for _, q := range Questions {
		if q.Subject == subject {
			out = append(out, q)
		}
	}
	return out
}
