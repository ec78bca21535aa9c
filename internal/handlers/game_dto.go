package handlers

import (
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/mines"
)

var dec = schema.NewDecoder()

func init() {
	dec.IgnoreUnknownKeys(true)
}

func ParseGameParams(src url.Values) (game.Params, error) {
	var params game.Params
	err := dec.Decode(&params, src)
	return params, err
}

func ParsePosition(src url.Values) (mines.Point, error) {
	var p mines.Point
	err := dec.Decode(&p, src)
	return p, err
}

type GameDTO struct {
	GameID    string             `json:"game_id"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	MineCount int                `json:"mine_count"`
	FlagCount int                `json:"flag_count"`
	Phase     mines.Phase        `json:"phase"`
	Grid      mines.GridInfo     `json:"grid"`
	StartedAt int64              `json:"started_at"`
	EndedAt   *int64             `json:"ended_at,omitempty"`
	Outcome   *mines.OpenOutcome `json:"outcome,omitempty"`
	Flagged   *bool              `json:"flagged,omitempty"`
}

func NewGameDTO(s game.Snapshot) *GameDTO {
	var endedAt *int64
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameDTO{
		GameID:    s.GameID.String(),
		Width:     s.Width,
		Height:    s.Height,
		MineCount: s.MineCount,
		FlagCount: s.FlagCount,
		Phase:     s.Phase,
		Grid:      s.Grid,
		StartedAt: s.StartedAt.UnixMilli(),
		EndedAt:   endedAt,
	}
}

func (d *GameDTO) WithOutcome(o mines.OpenOutcome) *GameDTO {
	d.Outcome = &o
	return d
}

func (d *GameDTO) WithFlagged(changed bool) *GameDTO {
	d.Flagged = &changed
	return d
}

type CreatedGameDTO struct {
	*GameDTO
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type ResultDTO struct {
	Command string             `json:"command"`
	Point   *mines.Point       `json:"point,omitempty"`
	Outcome *mines.OpenOutcome `json:"outcome,omitempty"`
	Flagged *bool              `json:"flagged,omitempty"`
}

func NewResultDTO(r commands.Result) ResultDTO {
	dto := ResultDTO{Command: r.Command}
	switch r.Command {
	case "o", "c":
		p, o := r.Point, r.Outcome
		dto.Point, dto.Outcome = &p, &o
	case "f":
		p, flagged := r.Point, r.Flagged
		dto.Point, dto.Flagged = &p, &flagged
	}
	return dto
}

// BatchDTO is the reply to a batch of commands, over HTTP or a websocket.
// Error is set when a command failed; the commands before it still count.
type BatchDTO struct {
	Game    *GameDTO    `json:"game,omitempty"`
	Results []ResultDTO `json:"results"`
	Error   string      `json:"error,omitempty"`
}

func NewBatchDTO(s game.Snapshot, results []commands.Result, err error) *BatchDTO {
	dto := &BatchDTO{
		Game:    NewGameDTO(s),
		Results: make([]ResultDTO, 0, len(results)),
	}
	for _, r := range results {
		dto.Results = append(dto.Results, NewResultDTO(r))
	}
	if err != nil {
		dto.Error = err.Error()
	}
	return dto
}
