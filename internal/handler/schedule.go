// Package handler provides the HTTP request handlers wrapping the
// core solve() entry point. This layer is intentionally thin: the
// HTTP surface is an external collaborator, not a feature.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/gunmupyo/internal/metrics"
	"github.com/paiban/gunmupyo/internal/repository"
	"github.com/paiban/gunmupyo/pkg/logger"
	"github.com/paiban/gunmupyo/pkg/rcalendar"
	"github.com/paiban/gunmupyo/pkg/rerrors"
	"github.com/paiban/gunmupyo/pkg/rota"
	"github.com/paiban/gunmupyo/pkg/rota/solver"
)

// ScheduleHandler serves POST /api/v1/schedule/generate.
type ScheduleHandler struct {
	rotaLogger *logger.RotaLogger
	runs       *repository.RunRepository // nil unless the audit log is enabled
	maxTime    time.Duration             // 0 selects solver.DefaultTimeout
}

// NewScheduleHandler creates a handler. runs may be nil when the
// audit log is disabled. maxTime of 0 selects solver.DefaultTimeout.
func NewScheduleHandler(runs *repository.RunRepository, maxTime time.Duration) *ScheduleHandler {
	return &ScheduleHandler{
		rotaLogger: logger.NewRotaLogger(),
		runs:       runs,
		maxTime:    maxTime,
	}
}

// FixedShiftInput is one entry of GenerateRequest.FixedShifts, the
// wire shape of the HTTP API.
type FixedShiftInput struct {
	EmployeeIdx int `json:"employee_idx"`
	Day         int `json:"day"`
	ShiftType   int `json:"shift_type"`
}

// GenerateRequest is the wire request of the schedule generation endpoint.
type GenerateRequest struct {
	Year        int               `json:"year"`
	Month       int               `json:"month"`
	Employees   []string          `json:"employees"`
	WorkDays    int               `json:"work_days"`
	FixedShifts []FixedShiftInput `json:"fixed_shifts"`
}

// ShiftOutput is one decoded (day, kind) entry in a schedule row.
type ShiftOutput struct {
	Day    int    `json:"day"`
	Type   int    `json:"type"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ScheduleRowOutput is one employee's decoded monthly schedule.
type ScheduleRowOutput struct {
	Name       string        `json:"name"`
	Shifts     []ShiftOutput `json:"shifts"`
	DayCount   int           `json:"day_count"`
	NightCount int           `json:"night_count"`
	OffBCount  int           `json:"offb_count"`
	OffRCount  int           `json:"offr_count"`
}

// DailyCoverageOutput is one day's staffing snapshot.
type DailyCoverageOutput struct {
	Day          int `json:"day"`
	DayWorkers   int `json:"day_workers"`
	NightWorkers int `json:"night_workers"`
}

// ConfigEcho restates the derived facts of the request, including
// weekday names, for display alongside the generated schedule.
type ConfigEcho struct {
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	NumDays          int    `json:"num_days"`
	WorkDays         int    `json:"work_days"`
	RestDays         int    `json:"rest_days"`
	FirstDayWeekday  string `json:"first_day_weekday"`
	LastDayWeekday   string `json:"last_day_weekday"`
}

// GenerateResponse is the wire response of the schedule generation endpoint on success.
type GenerateResponse struct {
	Status     string                `json:"status"`
	Schedule   []ScheduleRowOutput   `json:"schedule"`
	Statistics GenerateStatistics    `json:"statistics"`
	Config     ConfigEcho            `json:"config"`
}

// GenerateStatistics wraps the per-day coverage snapshot.
type GenerateStatistics struct {
	DailyCoverage []DailyCoverageOutput `json:"daily_coverage"`
}

// Generate handles POST /api/v1/schedule/generate.
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, rerrors.New(rerrors.CodeInvalidInput, "only POST is supported"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, rerrors.Wrap(err, rerrors.CodeInvalidInput, "failed to parse request body"))
		return
	}
	if req.WorkDays == 0 {
		req.WorkDays = rota.DefaultWorkDays
	}

	facts, err := rcalendar.For(req.Year, req.Month)
	if err != nil {
		respondError(w, asAppError(err))
		return
	}

	pins := make([]rota.Pin, 0, len(req.FixedShifts))
	for _, f := range req.FixedShifts {
		kind, err := rota.ParseKind(f.ShiftType)
		if err != nil {
			respondError(w, asAppError(err))
			return
		}
		pins = append(pins, rota.Pin{Employee: f.EmployeeIdx, Day: f.Day, Shift: kind})
	}

	weekdays := make([]int, len(facts.Weekdays))
	for i, w := range facts.Weekdays {
		weekdays[i] = int(w)
	}
	cfg, err := rota.NewConfig(req.Year, req.Month, facts.NumDays, weekdays, req.Employees, req.WorkDays, pins)
	if err != nil {
		respondError(w, asAppError(err))
		return
	}

	start := time.Now()
	status, sol, err := solver.Solve(r.Context(), cfg, h.maxTime, h.rotaLogger)
	elapsed := time.Since(start)
	metrics.RecordSolve(string(status), elapsed)

	if h.runs != nil {
		objective := 0
		if sol != nil {
			objective = sol.Objective()
		}
		runID := uuid.NewString()
		if sol != nil {
			runID = sol.RunID
		}
		if err := h.runs.Record(r.Context(), repository.Run{
			RunID:      runID,
			Year:       req.Year,
			Month:      req.Month,
			Employees:  len(req.Employees),
			Status:     string(status),
			Objective:  objective,
			DurationMs: elapsed.Milliseconds(),
		}); err != nil {
			logger.Get().Error().Err(err).Str("run_id", runID).Msg("failed to persist audit log entry")
		}
	}
	if err != nil {
		respondError(w, asAppError(err))
		return
	}

	extraction := rota.Extract(sol.Model)
	report := rota.ReportFairness(sol.Model)
	metrics.SetFairnessGini("day", report.DayGini)
	metrics.SetFairnessGini("night", report.NightGini)
	metrics.SetObjectiveValue(string(status), float64(sol.Objective()))

	respondJSON(w, http.StatusOK, buildResponse(status, extraction, facts, cfg))
}

func buildResponse(status solver.Status, ex rota.Extraction, facts rcalendar.Facts, cfg *rota.Config) GenerateResponse {
	rows := make([]ScheduleRowOutput, len(ex.Schedule))
	for i, row := range ex.Schedule {
		shifts := make([]ShiftOutput, len(row.Shifts))
		for j, s := range row.Shifts {
			shifts[j] = ShiftOutput{Day: s.Day, Type: int(s.Kind), Symbol: s.Symbol, Name: s.Name}
		}
		rows[i] = ScheduleRowOutput{
			Name: row.Name, Shifts: shifts,
			DayCount: row.DayCount, NightCount: row.NightCount,
			OffBCount: row.OffBCount, OffRCount: row.OffRCount,
		}
	}

	coverage := make([]DailyCoverageOutput, len(ex.Coverage))
	for i, c := range ex.Coverage {
		coverage[i] = DailyCoverageOutput{Day: c.Day, DayWorkers: c.DayWorkers, NightWorkers: c.NightWorkers}
	}

	return GenerateResponse{
		Status:     string(status),
		Schedule:   rows,
		Statistics: GenerateStatistics{DailyCoverage: coverage},
		Config: ConfigEcho{
			Year: cfg.Year, Month: cfg.Month, NumDays: cfg.NumDays,
			WorkDays: cfg.WorkDays, RestDays: cfg.RestDays,
			FirstDayWeekday: facts.WeekdayName(facts.FirstDayWeekday),
			LastDayWeekday:  facts.WeekdayName(facts.LastDayWeekday),
		},
	}
}

func asAppError(err error) *rerrors.AppError {
	if appErr, ok := err.(*rerrors.AppError); ok {
		return appErr
	}
	return rerrors.Wrap(err, rerrors.CodeInternal, "unexpected solver failure")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err *rerrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
