package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

func buildProgram(id int64, title string, price int64, category string, createdAt time.Time) models.Program {
	return models.Program{
		ID:        id,
		Title:     title,
		Price:     price,
		Category:  category,
		CreatedAt: createdAt,
	}
}

func programIDs(programs []models.Program) []int64 {
	ids := make([]int64, 0, len(programs))
	for _, program := range programs {
		ids = append(ids, program.ID)
	}
	return ids
}

func TestFilterProgramsByCategoryAndPrice(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	programs := []models.Program{
		buildProgram(1, "Mass Builder", 3900000, models.CategoryTraining, base),
		buildProgram(2, "Cutting Diet", 2500000, models.CategoryDiet, base.Add(time.Hour)),
		buildProgram(3, "Creatine Stack", 900000, models.CategorySupplement, base.Add(2*time.Hour)),
		buildProgram(4, "Power Training", 1500000, models.CategoryTraining, base.Add(3*time.Hour)),
	}

	minPrice := int64(1000000)
	got := FilterPrograms(programs, CatalogFilter{
		Category: models.CategoryTraining,
		MinPrice: &minPrice,
		Sort:     SortPriceAsc,
	})

	if want := []int64{4, 1}; !reflect.DeepEqual(programIDs(got), want) {
		t.Fatalf("expected programs %v, got %v", want, programIDs(got))
	}
}

func TestFilterProgramsQueryMatchesTitleAndDescription(t *testing.T) {
	description := "Twelve weeks of hypertrophy work"
	programs := []models.Program{
		buildProgram(1, "Hypertrophy Block", 100, models.CategoryTraining, time.Now()),
		{ID: 2, Title: "Base Phase", Description: &description, Price: 200, Category: models.CategoryTraining},
		buildProgram(3, "Endurance Plan", 300, models.CategoryTraining, time.Now()),
	}

	got := FilterPrograms(programs, CatalogFilter{Query: "HYPERTROPHY"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, program := range got {
		if program.ID == 3 {
			t.Fatalf("program 3 should not match query")
		}
	}
}

func TestFilterProgramsIsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	programs := []models.Program{
		buildProgram(1, "A", 500, models.CategoryTraining, base.Add(time.Minute)),
		buildProgram(2, "B", 300, models.CategoryDiet, base),
		buildProgram(3, "C", 700, models.CategoryTraining, base.Add(2*time.Minute)),
	}
	filter := CatalogFilter{Category: models.CategoryTraining, Sort: SortPriceDesc}

	once := FilterPrograms(programs, filter)
	twice := FilterPrograms(once, filter)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second application changed the result: %v vs %v", programIDs(once), programIDs(twice))
	}
}

func TestFilterProgramsDoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	programs := []models.Program{
		buildProgram(1, "Z", 900, models.CategoryTraining, base),
		buildProgram(2, "A", 100, models.CategoryTraining, base.Add(time.Hour)),
	}
	snapshot := append([]models.Program(nil), programs...)

	FilterPrograms(programs, CatalogFilter{Sort: SortTitle})

	if !reflect.DeepEqual(programs, snapshot) {
		t.Fatalf("input slice was mutated")
	}
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	createdAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	programs := []models.Program{
		buildProgram(10, "First", 1000, models.CategoryTraining, createdAt),
		buildProgram(20, "Second", 1000, models.CategoryTraining, createdAt),
		buildProgram(30, "Third", 1000, models.CategoryTraining, createdAt),
	}

	for _, key := range []string{SortNewest, SortOldest, SortPriceAsc, SortPriceDesc} {
		got := FilterPrograms(programs, CatalogFilter{Sort: key})
		if want := []int64{10, 20, 30}; !reflect.DeepEqual(programIDs(got), want) {
			t.Fatalf("sort %q reordered equal keys: got %v", key, programIDs(got))
		}
	}
}

func TestCategoriesArePairwiseExclusive(t *testing.T) {
	base := time.Now()
	programs := []models.Program{
		buildProgram(1, "A", 1, models.CategoryTraining, base),
		buildProgram(2, "B", 2, models.CategoryDiet, base),
		buildProgram(3, "C", 3, models.CategorySupplement, base),
	}

	seen := map[int64]int{}
	for _, category := range []string{models.CategoryTraining, models.CategoryDiet, models.CategorySupplement} {
		for _, program := range FilterPrograms(programs, CatalogFilter{Category: category}) {
			seen[program.ID]++
		}
	}

	if len(seen) != len(programs) {
		t.Fatalf("expected every program in exactly one category, got %d of %d", len(seen), len(programs))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("program %d appeared in %d categories", id, count)
		}
	}
}

func TestPagePrograms(t *testing.T) {
	programs := []models.Program{
		buildProgram(1, "A", 1, models.CategoryTraining, time.Now()),
		buildProgram(2, "B", 2, models.CategoryTraining, time.Now()),
		buildProgram(3, "C", 3, models.CategoryTraining, time.Now()),
	}

	if got := PagePrograms(programs, 2, 2); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected last page to hold program 3, got %v", programIDs(got))
	}
	if got := PagePrograms(programs, 5, 2); len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %v", programIDs(got))
	}
	if got := PagePrograms(programs, 1, 0); len(got) != 3 {
		t.Fatalf("expected zero limit to return everything, got %v", programIDs(got))
	}
}
