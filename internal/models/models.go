package models

type DurationRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type Course struct {
	ID                     string         `json:"_id"`
	NameRU                 string         `json:"nameRU"`
	NameEN                 string         `json:"nameEN"`
	Description            string         `json:"description,omitempty"`
	Directions             []string       `json:"directions,omitempty"`
	Fitting                []string       `json:"fitting,omitempty"`
	Difficulty             string         `json:"difficulty,omitempty"`
	DurationInDays         int            `json:"durationInDays,omitempty"`
	DailyDurationInMinutes *DurationRange `json:"dailyDurationInMinutes,omitempty"`
	Workouts               []string       `json:"workouts,omitempty"`
	Order                  int            `json:"order,omitempty"`
}

type Exercise struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Workout struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Video     string     `json:"video,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

// TargetQuantity is the sum of all exercise targets.
func (w *Workout) TargetQuantity() int {
	total := 0
	for _, e := range w.Exercises {
		if e.Quantity > 0 {
			total += e.Quantity
		}
	}
	return total
}

type ProgressRecord struct {
	CourseID         string `json:"courseId,omitempty"`
	WorkoutID        string `json:"workoutId"`
	ProgressData     []int  `json:"progressData"`
	WorkoutCompleted bool   `json:"workoutCompleted"`
}

type CourseProgress struct {
	CourseID         string           `json:"courseId"`
	CourseCompleted  bool             `json:"courseCompleted"`
	WorkoutsProgress []ProgressRecord `json:"workoutsProgress"`
}

// WorkoutProgress is one row of a course overview.
type WorkoutProgress struct {
	WorkoutID string `json:"workoutId"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Percent   int    `json:"percent"`
}

type CourseOverview struct {
	CourseID string            `json:"courseId"`
	Percent  int               `json:"percent"`
	Workouts []WorkoutProgress `json:"workouts"`
}

// AuthResponse is the body of a successful login or register call.
type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
