// Package skills provides the derived category view over flat skill lists.
package skills

import (
	"github.com/jonathan/portfolio/internal/types"
)

// GroupByCategory groups skills by their Category field.
// Categories appear in order of first occurrence and skills keep their input order
// within each category. An empty or unrecognised category is its own group, keyed
// by the literal value; nothing is merged into a catch-all bucket.
func GroupByCategory(list []types.Skill) []types.SkillCategory {
	if len(list) == 0 {
		return []types.SkillCategory{}
	}

	// category -> index into groups
	index := make(map[string]int)
	groups := make([]types.SkillCategory, 0)

	for _, s := range list {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, types.SkillCategory{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}

	return groups
}

// AverageProficiency returns the mean proficiency of a group, or 0 for an empty group.
func AverageProficiency(group types.SkillCategory) int {
	if len(group.Skills) == 0 {
		return 0
	}
	total := 0
	for _, s := range group.Skills {
		total += s.Proficiency
	}
	return total / len(group.Skills)
}
