package catalog

import "github.com/Kim2783/Kidstodolist/internal/models"

// Default returns the built-in task catalog, with every task applying to the
// whole roster. It is what a session starts with until a household uploads
// its own CSV.
func Default(roster []models.Child) models.Catalog {
	everyone := append([]models.Child(nil), roster...)

	return models.Catalog{Tasks: []models.Task{
		{ID: "md1", Description: "Brush your teeth", Type: models.TaskTypeMustDo, Frequency: models.FrequencyDaily, AppliesTo: everyone},
		{ID: "md2", Description: "Make your bed", Type: models.TaskTypeMustDo, Frequency: models.FrequencyDaily, AppliesTo: everyone},
		{ID: "md3", Description: "Put dirty clothes in the basket", Type: models.TaskTypeMustDo, Frequency: models.FrequencyDaily, AppliesTo: everyone},
		{ID: "md4", Description: "Tidy your bedroom", Type: models.TaskTypeMustDo, Frequency: models.FrequencyWeekly, AppliesTo: everyone},
		{ID: "cd1", Description: "Empty the dishwasher", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyDaily, AppliesTo: everyone, Value: 50},
		{ID: "cd2", Description: "Feed the pets", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyDaily, AppliesTo: everyone, Value: 25},
		{ID: "cd3", Description: "Set the table for dinner", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyDaily, AppliesTo: everyone, Value: 75},
		{ID: "cd4", Description: "Wash the car", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyWeekly, AppliesTo: everyone, Value: 200},
		{ID: "cd5", Description: "Hoover the stairs", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyWeekly, AppliesTo: everyone, Value: 100},
	}}
}
