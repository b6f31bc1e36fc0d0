package fakeapi

import (
	"github.com/2beens/fitcourses/internal/models"
	"github.com/2beens/fitcourses/internal/storage"
)

// SeedCourses is the catalog the fake API starts with.
func SeedCourses() []models.Course {
	return []models.Course{
		{
			ID:             "ab1c3f",
			NameRU:         "Йога",
			NameEN:         "Yoga",
			Description:    "Для тех, кто хочет обрести гибкость, стройность и спокойствие",
			Directions:     []string{"Йога для новичков", "Классическая йога", "Кундалини-йога"},
			Fitting:        []string{"Давно хотели попробовать йогу", "Хотите укрепить позвоночник"},
			Difficulty:     "начальный",
			DurationInDays: 15,
			DailyDurationInMinutes: &models.DurationRange{
				From: 20,
				To:   50,
			},
			Workouts: []string{"17oz5f", "pyvaec"},
			Order:    1,
		},
		{
			ID:             "kfpq8e",
			NameRU:         "Стретчинг",
			NameEN:         "Stretching",
			Description:    "Растяжка для всего тела",
			Directions:     []string{"Мягкое растяжение", "Шпагаты"},
			Difficulty:     "средний",
			DurationInDays: 25,
			DailyDurationInMinutes: &models.DurationRange{
				From: 15,
				To:   30,
			},
			Workouts: []string{"v1k2m3"},
			Order:    2,
		},
		{
			ID:             "ypox9r",
			NameRU:         "Бодифлекс",
			NameEN:         "Bodyflex",
			Description:    "Дыхательная гимнастика",
			Difficulty:     "начальный",
			DurationInDays: 10,
			Workouts:       []string{"b7x9q1"},
			Order:          3,
		},
		{
			ID:             "6i67sm",
			NameRU:         "Степ-аэробика",
			NameEN:         "Step Aerobics",
			Description:    "Кардио на степ-платформе",
			Difficulty:     "сложный",
			DurationInDays: 20,
			Workouts:       []string{"s4t5e6"},
			Order:          4,
		},
	}
}

// SeedWorkouts are the workouts referenced by SeedCourses.
func SeedWorkouts() []models.Workout {
	return []models.Workout{
		{
			ID:    "17oz5f",
			Name:  "Утренняя практика / Йога на каждый день / 1 день",
			Video: "https://www.youtube.com/embed/oqe98Dxivns",
			Exercises: []models.Exercise{
				{ID: "e1", Name: "Наклон вперед", Quantity: 10},
				{ID: "e2", Name: "Наклон назад", Quantity: 10},
				{ID: "e3", Name: "Поднятие ног, согнутых в коленях", Quantity: 5},
			},
		},
		{
			ID:    "pyvaec",
			Name:  "Красота и здоровье / Йога на каждый день / 2 день",
			Video: "https://www.youtube.com/embed/v-xTLFDhoD0",
			Exercises: []models.Exercise{
				{ID: "e4", Name: "Поза кошки", Quantity: 8},
				{ID: "e5", Name: "Поза собаки", Quantity: 8},
			},
		},
		{
			ID:    "v1k2m3",
			Name:  "Растяжка спины",
			Video: "https://www.youtube.com/embed/cVIkYYBCZ3o",
			Exercises: []models.Exercise{
				{ID: "e6", Name: "Скрутка лежа", Quantity: 6},
			},
		},
		{
			ID:    "b7x9q1",
			Name:  "Дыхание",
			Video: "https://www.youtube.com/embed/1kNTGnLbTMU",
			Exercises: []models.Exercise{
				{ID: "e7", Name: "Вакуум", Quantity: 12},
			},
		},
		{
			ID:    "s4t5e6",
			Name:  "Базовые шаги",
			Video: "https://www.youtube.com/embed/J2Vs8ZVl0QA",
			Exercises: []models.Exercise{
				{ID: "e8", Name: "Бейсик степ", Quantity: 30},
				{ID: "e9", Name: "Ви-степ", Quantity: 30},
			},
		},
	}
}

// NewSeededState is a State holding the seed catalog.
func NewSeededState(sessions storage.Store) *State {
	return NewState(sessions, SeedCourses(), SeedWorkouts())
}
