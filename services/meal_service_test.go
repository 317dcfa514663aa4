package services

import (
	"testing"

	"github.com/IbrahimFattah/hisabcal/config"
	"github.com/IbrahimFattah/hisabcal/models"
	"github.com/IbrahimFattah/hisabcal/utils"
)

func TestCreateMealSnapshotsCalories(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "meals@test.com", 2000)
	meals := NewMealService()

	food := models.FoodItem{Name: "Oatmeal", CaloriesPerServing: 150, ServingLabel: "1 bowl"}
	if err := config.DB.Create(&food).Error; err != nil {
		t.Fatalf("create food: %v", err)
	}

	meal, err := meals.CreateMeal(userID, "2025-01-15", "BREAKFAST", []MealItemRequest{
		{FoodItemID: food.ID, Servings: 1.5},
	})
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if len(meal.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(meal.Items))
	}
	// round(150 * 1.5) = 225, snapshotted at log time.
	if meal.Items[0].ComputedCalories != 225 {
		t.Errorf("computed calories = %d, want 225", meal.Items[0].ComputedCalories)
	}

	// Editing the food later must not rewrite the logged snapshot.
	if err := config.DB.Model(&food).Update("calories_per_serving", 999).Error; err != nil {
		t.Fatalf("update food: %v", err)
	}
	total, err := meals.GetDailyCalories(userID, "2025-01-15")
	if err != nil {
		t.Fatalf("GetDailyCalories: %v", err)
	}
	if total != 225 {
		t.Errorf("daily calories = %d, want the 225 snapshot", total)
	}
}

func TestCreateMealValidation(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "mealsbad@test.com", 2000)
	meals := NewMealService()

	t.Run("no items", func(t *testing.T) {
		_, err := meals.CreateMeal(userID, "2025-01-15", "LUNCH", nil)
		assertAppCode(t, err, "NO_ITEMS")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := meals.CreateMeal(userID, "Jan 15", "LUNCH", []MealItemRequest{{FoodItemID: 1, Servings: 1}})
		assertAppCode(t, err, "INVALID_DATE")
	})

	t.Run("unknown food rolls the meal back", func(t *testing.T) {
		_, err := meals.CreateMeal(userID, "2025-01-15", "LUNCH", []MealItemRequest{
			{FoodItemID: 9999, Servings: 1},
		})
		assertAppCode(t, err, utils.CodeNotFound)

		listed, err := meals.ListMeals(userID, "2025-01-15")
		if err != nil {
			t.Fatalf("ListMeals: %v", err)
		}
		if len(listed) != 0 {
			t.Errorf("meals after rolled-back create = %d, want 0", len(listed))
		}
	})
}

func TestGetDailyCaloriesSumsAcrossMeals(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "daily@test.com", 2000)
	meals := NewMealService()

	logMeal(t, userID, "2025-01-15", 400)
	logMeal(t, userID, "2025-01-15", 600)
	logMeal(t, userID, "2025-01-16", 999)

	total, err := meals.GetDailyCalories(userID, "2025-01-15")
	if err != nil {
		t.Fatalf("GetDailyCalories: %v", err)
	}
	if total != 1000 {
		t.Errorf("daily calories = %d, want 1000", total)
	}

	empty, err := meals.GetDailyCalories(userID, "2025-01-20")
	if err != nil {
		t.Fatalf("GetDailyCalories empty day: %v", err)
	}
	if empty != 0 {
		t.Errorf("empty day calories = %d, want 0", empty)
	}
}

func TestDeleteMealExcludedFromDailySum(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "mealdelete@test.com", 2000)
	meals := NewMealService()

	logMeal(t, userID, "2025-01-15", 500)
	listed, err := meals.ListMeals(userID, "2025-01-15")
	if err != nil {
		t.Fatalf("ListMeals: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("len(listed) = %d, want 1", len(listed))
	}

	if err := meals.DeleteMeal(userID, listed[0].ID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}

	total, err := meals.GetDailyCalories(userID, "2025-01-15")
	if err != nil {
		t.Fatalf("GetDailyCalories: %v", err)
	}
	if total != 0 {
		t.Errorf("daily calories after delete = %d, want 0", total)
	}
}

func TestDeleteMealOwnership(t *testing.T) {
	setupTestDB(t)
	owner := seedUser(t, "mealowner@test.com", 2000)
	intruder := seedUser(t, "mealintruder@test.com", 2000)
	meals := NewMealService()

	logMeal(t, owner, "2025-01-15", 500)
	listed, _ := meals.ListMeals(owner, "2025-01-15")

	err := meals.DeleteMeal(intruder, listed[0].ID)
	assertAppCode(t, err, utils.CodeNotAuthorized)
}
