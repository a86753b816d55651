package models

import "testing"

func TestDefaultCategories(t *testing.T) {
	t.Run("splits evenly over ten named ranges", func(t *testing.T) {
		categories, err := DefaultCategories(10000)
		if err != nil {
			t.Fatalf("default categories: %v", err)
		}
		if len(categories) != 10 {
			t.Fatalf("categories = %d, want 10", len(categories))
		}
		if categories[0].CategoryName != "Bike" || categories[9].CategoryName != "Airplane" {
			t.Fatalf("names = %s..%s", categories[0].CategoryName, categories[9].CategoryName)
		}
		next := 1
		for _, cat := range categories {
			if cat.SeatRangeStart != next {
				t.Fatalf("category %d starts at %d, want %d", cat.CategoryID, cat.SeatRangeStart, next)
			}
			if cat.TotalSeats != 1000 || cat.AvailableSeats != 1000 || cat.PurchasedSeats != 0 {
				t.Fatalf("category %d counters = %d/%d/%d", cat.CategoryID, cat.TotalSeats, cat.AvailableSeats, cat.PurchasedSeats)
			}
			next = cat.SeatRangeEnd + 1
		}
		if next != 10001 {
			t.Fatalf("ranges end at %d, want 10000", next-1)
		}
	})

	t.Run("rejects counts that do not divide by ten", func(t *testing.T) {
		for _, n := range []int{0, -10, 5, 1001} {
			if _, err := DefaultCategories(n); err == nil {
				t.Errorf("DefaultCategories(%d) succeeded, want error", n)
			}
		}
	})
}

func TestCategoryForSeat(t *testing.T) {
	categories, err := DefaultCategories(100)
	if err != nil {
		t.Fatalf("default categories: %v", err)
	}
	contest := &Contest{TotalSeats: 100, Categories: categories}

	cases := []struct {
		seat     int
		category int
	}{
		{1, 1}, {10, 1}, {11, 2}, {55, 6}, {91, 10}, {100, 10},
	}
	for _, tc := range cases {
		cat, err := contest.CategoryForSeat(tc.seat)
		if err != nil {
			t.Fatalf("seat %d: %v", tc.seat, err)
		}
		if cat.CategoryID != tc.category {
			t.Errorf("seat %d -> category %d, want %d", tc.seat, cat.CategoryID, tc.category)
		}
	}

	for _, seat := range []int{0, 101, -4} {
		if _, err := contest.CategoryForSeat(seat); err == nil {
			t.Errorf("seat %d resolved, want error", seat)
		}
	}
}

func TestValidateCategories(t *testing.T) {
	categories, _ := DefaultCategories(100)
	contest := &Contest{TotalSeats: 100, Categories: categories}
	if err := contest.ValidateCategories(); err != nil {
		t.Fatalf("valid categories rejected: %v", err)
	}

	t.Run("detects gaps", func(t *testing.T) {
		broken, _ := DefaultCategories(100)
		broken[5].SeatRangeStart++
		c := &Contest{TotalSeats: 100, Categories: broken}
		if err := c.ValidateCategories(); err == nil {
			t.Fatal("gap not detected")
		}
	})

	t.Run("detects wrong totals", func(t *testing.T) {
		c := &Contest{TotalSeats: 200, Categories: categories}
		if err := c.ValidateCategories(); err == nil {
			t.Fatal("short coverage not detected")
		}
	})
}
