package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

// serviceError maps service-layer errors onto HTTP statuses. Conflicts
// (capacity, daily constraint, double-booking) are 409: the request was
// well-formed but collides with current state.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case model.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case model.IsConflict(err):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

type signupDTO struct {
	ID                  string     `json:"id"`
	VolunteerID         string     `json:"volunteer_id"`
	ShiftID             string     `json:"shift_id"`
	Status              string     `json:"status"`
	Queue               string     `json:"queue"`
	IsFlexiblePlacement bool       `json:"is_flexible_placement"`
	OriginalShiftID     *string    `json:"original_shift_id,omitempty"`
	PlacedAt            *time.Time `json:"placed_at,omitempty"`
	PlacementNotes      string     `json:"placement_notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toSignupDTO(signup *db.Signup) signupDTO {
	return signupDTO{
		ID:                  signup.ID,
		VolunteerID:         signup.VolunteerID,
		ShiftID:             signup.ShiftID,
		Status:              string(signup.Status),
		Queue:               string(signup.Queue),
		IsFlexiblePlacement: signup.IsFlexiblePlacement,
		OriginalShiftID:     signup.OriginalShiftID,
		PlacedAt:            signup.PlacedAt,
		PlacementNotes:      signup.PlacementNotes,
		CreatedAt:           signup.CreatedAt,
	}
}

func toSignupDTOs(signups []db.Signup) []signupDTO {
	out := make([]signupDTO, 0, len(signups))
	for i := range signups {
		out = append(out, toSignupDTO(&signups[i]))
	}
	return out
}

type shiftDTO struct {
	ID          string    `json:"id"`
	ShiftTypeID string    `json:"shift_type_id"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Capacity    int       `json:"capacity"`
	Notes       string    `json:"notes,omitempty"`
}

func toShiftDTO(shift *db.Shift) shiftDTO {
	return shiftDTO{
		ID:          shift.ID,
		ShiftTypeID: shift.ShiftTypeID,
		Location:    shift.Location,
		Start:       shift.Start,
		End:         shift.End,
		Capacity:    shift.Capacity,
		Notes:       shift.Notes,
	}
}

type volunteerDTO struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email,omitempty"`
	Grade           string    `json:"grade"`
	CompletedShifts int       `json:"completed_shifts"`
	AttendanceRate  int       `json:"attendance_rate"`
	JoinedAt        time.Time `json:"joined_at"`
	Active          bool      `json:"active"`
	Experience      []string  `json:"experience,omitempty"`
}

func toVolunteerDTO(volunteer *db.Volunteer) volunteerDTO {
	return volunteerDTO{
		ID:              volunteer.ID,
		FirstName:       volunteer.FirstName,
		LastName:        volunteer.LastName,
		Email:           volunteer.Email,
		Grade:           string(volunteer.Grade),
		CompletedShifts: volunteer.CompletedShifts,
		AttendanceRate:  volunteer.AttendanceRate,
		JoinedAt:        volunteer.JoinedAt,
		Active:          volunteer.Active,
		Experience:      volunteer.ExperienceShiftTypeIDs,
	}
}
