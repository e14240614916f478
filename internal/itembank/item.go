package itembank

import "github.com/abhisek/paesdx/internal/atomgraph"

// DontKnowResponse is the reserved response for "I don't know". It can
// never be an item's correct choice.
const DontKnowResponse = "dont_know"

// Skill is the PAES competency an item exercises.
type Skill string

const (
	SkillSolve     Skill = "solve"
	SkillModel     Skill = "model"
	SkillRepresent Skill = "represent"
	SkillArgue     Skill = "argue"
)

// AllSkills returns all skills in display order.
func AllSkills() []Skill {
	return []Skill{SkillSolve, SkillModel, SkillRepresent, SkillArgue}
}

// Valid reports whether s is one of the declared skills.
func (s Skill) Valid() bool {
	switch s {
	case SkillSolve, SkillModel, SkillRepresent, SkillArgue:
		return true
	}
	return false
}

// Difficulty is the ordinal difficulty of an item. The set used by a bank
// may be sparse; High is often absent.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// AllDifficulties returns all difficulties in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyLow, DifficultyMedium, DifficultyHigh}
}

// Valid reports whether d is one of the declared difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyLow, DifficultyMedium, DifficultyHigh:
		return true
	}
	return false
}

// Item is a selected diagnostic question.
type Item struct {
	ID            string         `json:"id"`
	Axis          atomgraph.Axis `json:"axis"`
	Skill         Skill          `json:"skill"`
	Difficulty    Difficulty     `json:"difficulty"`
	CorrectChoice string         `json:"correct_choice"`
	AtomIDs       []string       `json:"atom_ids"`
}
