// Package api holds the inbound/outbound JSON shapes of the Battlesnake
// HTTP contract and the adapter that turns a decoded request
// into an internal/board.Board.
package api

import (
	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) toGeom() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

type Ruleset struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Settings struct {
		FoodSpawnChance     int `json:"foodSpawnChance"`
		MinimumFood         int `json:"minimumFood"`
		HazardDamagePerTurn int `json:"hazardDamagePerTurn"`
	} `json:"settings"`
}

type Game struct {
	ID      string  `json:"id"`
	Ruleset Ruleset `json:"ruleset"`
	Timeout int     `json:"timeout"`
}

type Snake struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Health int     `json:"health"`
	Body   []Point `json:"body"`
	Head   Point   `json:"head"`
	Length int     `json:"length"`
	Shout  string  `json:"shout"`
}

func (s Snake) toBoardSnake() board.Snake {
	body := make([]geom.Point, len(s.Body))
	for i, p := range s.Body {
		body[i] = p.toGeom()
	}
	return board.Snake{ID: s.ID, Name: s.Name, Health: s.Health, Body: body}
}

type BoardState struct {
	Height  int     `json:"height"`
	Width   int     `json:"width"`
	Food    []Point `json:"food"`
	Hazards []Point `json:"hazards"`
	Snakes  []Snake `json:"snakes"`
}

// GameRequest is the full inbound payload for /start, /move and /end.
type GameRequest struct {
	Game  Game       `json:"game"`
	Turn  int        `json:"turn"`
	Board BoardState `json:"board"`
	You   Snake      `json:"you"`
}

// ToBoard builds a board.Board from the request, with the requesting
// snake always reordered to index 0 so downstream components (the MCTS
// driver, flood-fill) have a stable "mine" index without needing the
// caller's snake ID threaded everywhere.
func (req GameRequest) ToBoard(wrap bool) (*board.Board, int) {
	foods := make([]geom.Point, len(req.Board.Food))
	for i, p := range req.Board.Food {
		foods[i] = p.toGeom()
	}
	hazards := make([]geom.Point, len(req.Board.Hazards))
	for i, p := range req.Board.Hazards {
		hazards[i] = p.toGeom()
	}

	snakes := make([]board.Snake, len(req.Board.Snakes))
	youIdx := 0
	for i, s := range req.Board.Snakes {
		snakes[i] = s.toBoardSnake()
		if s.ID == req.You.ID {
			youIdx = i
		}
	}
	snakes[0], snakes[youIdx] = snakes[youIdx], snakes[0]

	safeZone := geom.FullBoard()
	b := board.New(req.Turn, foods, hazards, geom.Point{}, safeZone, snakes, wrap)
	return b, 0
}

// MoveResponse is the /move reply body.
type MoveResponse struct {
	Move  string `json:"move"`
	Shout string `json:"shout,omitempty"`
}

// InfoResponse is the root "/" customization reply.
type InfoResponse struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author"`
	Color      string `json:"color"`
	Head       string `json:"head"`
	Tail       string `json:"tail"`
	Version    string `json:"version"`
}

// DirectionString renders a geom.Direction as the lowercase word the
// Battlesnake API expects in a move response.
func DirectionString(d geom.Direction) string {
	return d.String()
}
