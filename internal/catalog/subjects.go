package catalog

import "dvg-portal/internal/domain"

// GameSubjects holds the arcade mini-game content keyed by subject id.
var GameSubjects = map[string]domain.GameSubject{
	"entrepreneurship": {
		ID:          "entrepreneurship",
		Name:        "Uzņēmējdarbība",
		Description: "Atpazīsti biznesa jēdzienus un trenē reakciju.",
		GameKey:     "subject-sprint",
		Rounds: []domain.LearningRound{
			{
				Prompt:        "Savāc tikai ieņēmumu avotus",
				CorrectItems:  []string{"Pārdošana", "Abonements", "Licences", "Reklāmas ienākumi"},
				WrongItems:    []string{"Izdevumi", "Parāds", "Soda nauda", "Nodokļu maksājums"},
				TargetCorrect: 5,
			},
			{
				Prompt:        "Savāc tikai klientu vērtības piedāvājumus",
				CorrectItems:  []string{"Ātra piegāde", "Kvalitāte", "Personalizācija", "Atbalsts 24/7"},
				WrongItems:    []string{"Krājuma zudumi", "Birokrātija", "Dīkstāve", "Defekts"},
				TargetCorrect: 6,
			},
			{
				Prompt:        "Savāc tikai ilgtspējīgas izaugsmes rādītājus",
				CorrectItems:  []string{"Atkārtoti pirkumi", "Peļņas marža", "LTV", "NPS"},
				WrongItems:    []string{"Churn pieaugums", "Sūdzību skaits", "Atcelti pasūtījumi", "Nolietojums"},
				TargetCorrect: 7,
			},
		},
	},
}

// DefaultGameSubjectID is shown when a player has not picked a mini-game yet.
const DefaultGameSubjectID = "entrepreneurship"

// GameSubjectByID resolves an arcade subject by id.
func GameSubjectByID(id string) (domain.GameSubject, bool) {
	subject, ok := GameSubjects[id]
	return subject, ok
}
