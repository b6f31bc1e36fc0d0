package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitcourses/internal/auth"
	"github.com/2beens/fitcourses/internal/middleware"
	"github.com/2beens/fitcourses/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// server messages, in the language of the real API
const (
	msgRegistered      = "Регистрация прошла успешно!"
	msgUserExists      = "Пользователь с таким email уже существует"
	msgUserNotFound    = "Пользователь с таким email не найден"
	msgWrongPassword   = "Неверный пароль"
	msgCourseNotFound  = "Курс не найден"
	msgWorkoutNotFound = "Тренировка не найдена"
	msgCourseAdded     = "Курс успешно добавлен!"
	msgCourseRemoved   = "Курс успешно удален!"
	msgAlreadyEnrolled = "Курс уже добавлен"
	msgNotEnrolled     = "Пользователь не добавил этот курс"
	msgProgressSaved   = "Прогресс сохранен!"
	msgProgressReset   = "Прогресс тренировки сброшен!"
	msgBadBody         = "Некорректное тело запроса"
)

type enrollRequest struct {
	CourseID string `json:"courseId"`
}

type progressRequest struct {
	ProgressData []int `json:"progressData"`
}

type messageResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type Handler struct {
	state *State
}

func NewHandler(state *State) *Handler {
	return &Handler{
		state: state,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.handleRegister).Methods("POST", "OPTIONS").Name(routeRegister)
	r.HandleFunc("/auth/login", h.handleLogin).Methods("POST", "OPTIONS").Name(routeLogin)

	r.HandleFunc("/courses", h.handleListCourses).Methods("GET", "OPTIONS").Name(routeListCourses)
	r.HandleFunc("/courses/{id}", h.handleGetCourse).Methods("GET", "OPTIONS").Name(routeGetCourse)
	r.HandleFunc("/courses/{id}/workouts", h.handleCourseWorkouts).Methods("GET", "OPTIONS").Name("course-workouts")
	r.HandleFunc("/courses/{courseId}/workouts/{workoutId}", h.handleSaveProgress).Methods("PATCH", "OPTIONS").Name("save-progress")
	r.HandleFunc("/courses/{courseId}/workouts/{workoutId}/reset", h.handleResetProgress).Methods("PATCH", "OPTIONS").Name("reset-progress")
	r.HandleFunc("/workouts/{id}", h.handleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")

	r.HandleFunc("/users/me/courses", h.handleListEnrolled).Methods("GET", "OPTIONS").Name("list-user-courses")
	r.HandleFunc("/users/me/courses", h.handleEnroll).Methods("POST", "OPTIONS").Name("add-user-course")
	r.HandleFunc("/users/me/courses/{id}", h.handleUnenroll).Methods("DELETE", "OPTIONS").Name("remove-user-course")
	r.HandleFunc("/users/me/progress", h.handleGetProgress).Methods("GET", "OPTIONS").Name("get-progress")
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.Credentials
	if !decodeBody(w, r, &req) {
		return
	}

	if err := auth.ValidateCredentials(req.Email, req.Password); err != nil {
		var vErr *auth.ValidationError
		if errors.As(err, &vErr) {
			pkg.WriteJSON(w, http.StatusBadRequest, messageResponse{Message: vErr.Message, Field: vErr.Field})
			return
		}
		pkg.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.state.Register(req.Email, req.Password); err != nil {
		if errors.Is(err, ErrUserExists) {
			pkg.WriteJSON(w, http.StatusConflict, messageResponse{Message: msgUserExists, Field: auth.FieldEmail})
			return
		}
		log.Errorf("register [%s]: %s", req.Email, err)
		pkg.WriteJSONMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Debugf("user [%s] registered", req.Email)
	pkg.WriteJSONMessage(w, http.StatusCreated, msgRegistered)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.Credentials
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.state.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrUserNotFound):
		pkg.WriteJSON(w, http.StatusNotFound, messageResponse{Message: msgUserNotFound, Field: auth.FieldEmail})
		return
	case errors.Is(err, ErrWrongPassword):
		pkg.WriteJSON(w, http.StatusUnauthorized, messageResponse{Message: msgWrongPassword, Field: auth.FieldPassword})
		return
	case err != nil:
		log.Errorf("login [%s]: %s", req.Email, err)
		pkg.WriteJSONMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleListCourses(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, h.state.Courses())
}

func (h *Handler) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := h.state.Course(mux.Vars(r)["id"])
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusNotFound, msgCourseNotFound)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, course)
}

func (h *Handler) handleCourseWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.state.CourseWorkouts(mux.Vars(r)["id"])
	if err != nil {
		writeStateError(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, workouts)
}

func (h *Handler) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.state.Workout(mux.Vars(r)["id"])
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusNotFound, msgWorkoutNotFound)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, workout)
}

func (h *Handler) handleListEnrolled(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	pkg.WriteJSON(w, http.StatusOK, h.state.Enrolled(user))
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req enrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CourseID == "" {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "Не передан courseId")
		return
	}

	if err := h.state.Enroll(user, req.CourseID); err != nil {
		writeStateError(w, err)
		return
	}
	pkg.WriteJSONMessage(w, http.StatusCreated, msgCourseAdded)
}

func (h *Handler) handleUnenroll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if err := h.state.Unenroll(user, mux.Vars(r)["id"]); err != nil {
		writeStateError(w, err)
		return
	}
	pkg.WriteJSONMessage(w, http.StatusOK, msgCourseRemoved)
}

func (h *Handler) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	courseID := r.URL.Query().Get("courseId")
	workoutID := r.URL.Query().Get("workoutId")
	if courseID == "" {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "Не передан courseId")
		return
	}

	if workoutID == "" {
		cp, err := h.state.CourseProgress(user, courseID)
		if err != nil {
			writeStateError(w, err)
			return
		}
		pkg.WriteJSON(w, http.StatusOK, cp)
		return
	}

	record, err := h.state.WorkoutProgress(user, courseID, workoutID)
	if err != nil {
		writeStateError(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	var req progressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.state.SaveProgress(user, vars["courseId"], vars["workoutId"], req.ProgressData); err != nil {
		writeStateError(w, err)
		return
	}
	pkg.WriteJSONMessage(w, http.StatusOK, msgProgressSaved)
}

func (h *Handler) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.state.ResetProgress(user, vars["courseId"], vars["workoutId"]); err != nil {
		writeStateError(w, err)
		return
	}
	pkg.WriteJSONMessage(w, http.StatusOK, msgProgressReset)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		log.Debugf("decode [%s] body: %s", r.URL.Path, err)
		pkg.WriteJSONMessage(w, http.StatusBadRequest, msgBadBody)
		return false
	}
	return true
}

func writeStateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		pkg.WriteJSONMessage(w, http.StatusNotFound, msgCourseNotFound)
	case errors.Is(err, ErrWorkoutNotFound):
		pkg.WriteJSONMessage(w, http.StatusNotFound, msgWorkoutNotFound)
	case errors.Is(err, ErrAlreadyEnrolled):
		pkg.WriteJSONMessage(w, http.StatusBadRequest, msgAlreadyEnrolled)
	case errors.Is(err, ErrNotEnrolled):
		pkg.WriteJSONMessage(w, http.StatusBadRequest, msgNotEnrolled)
	case errors.Is(err, ErrBadProgress):
		pkg.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("fake api: %s", err)
		pkg.WriteJSONMessage(w, http.StatusInternalServerError, err.Error())
	}
}
