package xo

import (
	"errors"
	"fmt"
	"strings"
)

const (
	FamilyName    = "xo"
	FamilyVersion = "1.0"

	ActionCreate = "create"
	ActionTake   = "take"
	ActionDelete = "delete"

	fieldSeparator  = ","
	recordSeparator = "|"
	emptyBoard      = "---------"
	boardSize       = 9
)

var (
	ErrMalformedGame = errors.New("xo: malformed game record")
	ErrInvalidName   = errors.New("xo: invalid game name")
	ErrInvalidSpace  = errors.New("xo: space must be between 1 and 9")
	ErrSpaceTaken    = errors.New("xo: space already taken")
	ErrGameOver      = errors.New("xo: game is over")
	ErrNotYourTurn   = errors.New("xo: not this player's turn")
	ErrGameNotFound  = errors.New("xo: game not found")
	ErrGameExists    = errors.New("xo: game already exists")
)

type GameState string

const (
	StateP1Win  GameState = "P1-WIN"
	StateP2Win  GameState = "P2-WIN"
	StateTie    GameState = "TIE"
	StateP1Next GameState = "P1-NEXT"
	StateP2Next GameState = "P2-NEXT"
)

func (s GameState) Valid() bool {
	switch s {
	case StateP1Win, StateP2Win, StateTie, StateP1Next, StateP2Next:
		return true
	}
	return false
}

func (s GameState) Over() bool {
	return s == StateP1Win || s == StateP2Win || s == StateTie
}

// Game is one record of xo state: name,board,state,player1,player2. Player
// fields hold public key hex and stay empty until that player's first move.
type Game struct {
	Name    string    `json:"name"`
	Board   string    `json:"board"`
	State   GameState `json:"state"`
	Player1 string    `json:"player1"`
	Player2 string    `json:"player2"`
}

func NewGame(name string) *Game {
	return &Game{Name: name, Board: emptyBoard, State: StateP1Next}
}

func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, fieldSeparator+recordSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func ParseGame(record string) (*Game, error) {
	fields := strings.Split(record, fieldSeparator)
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w: want 5 fields, got %d", ErrMalformedGame, len(fields))
	}
	g := &Game{
		Name:    fields[0],
		Board:   fields[1],
		State:   GameState(fields[2]),
		Player1: fields[3],
		Player2: fields[4],
	}
	if g.Name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrMalformedGame)
	}
	if len(g.Board) != boardSize || strings.Trim(g.Board, "XO-") != "" {
		return nil, fmt.Errorf("%w: board %q", ErrMalformedGame, g.Board)
	}
	if !g.State.Valid() {
		return nil, fmt.Errorf("%w: state %q", ErrMalformedGame, g.State)
	}
	return g, nil
}

// ParseGames parses a state entry. Games whose names hash to the same
// address share one entry, separated by '|'.
func ParseGames(data []byte) ([]*Game, error) {
	if len(data) == 0 {
		return nil, nil
	}
	records := strings.Split(string(data), recordSeparator)
	games := make([]*Game, 0, len(records))
	for _, record := range records {
		g, err := ParseGame(record)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

func (g *Game) String() string {
	return strings.Join([]string{g.Name, g.Board, string(g.State), g.Player1, g.Player2}, fieldSeparator)
}

// Mark returns 'X', 'O' or '-' for space 1..9.
func (g *Game) Mark(space int) byte {
	return g.Board[space-1]
}

// CanTake applies the family's move rules for playerKey without changing g.
func (g *Game) CanTake(playerKey string, space int) error {
	if space < 1 || space > boardSize {
		return ErrInvalidSpace
	}
	if g.State.Over() {
		return ErrGameOver
	}
	if g.Mark(space) != '-' {
		return fmt.Errorf("%w: %d", ErrSpaceTaken, space)
	}

	player1, player2 := g.Player1, g.Player2
	if player1 == "" {
		player1 = playerKey
	} else if player2 == "" {
		player2 = playerKey
	}
	switch {
	case g.State == StateP1Next && playerKey != player1:
		return ErrNotYourTurn
	case g.State == StateP2Next && playerKey != player2:
		return ErrNotYourTurn
	}
	return nil
}

// Take returns the game after playerKey marks space.
func (g *Game) Take(playerKey string, space int) (*Game, error) {
	if err := g.CanTake(playerKey, space); err != nil {
		return nil, err
	}
	next := *g
	if next.Player1 == "" {
		next.Player1 = playerKey
	} else if next.Player2 == "" {
		next.Player2 = playerKey
	}

	mark := byte('X')
	if g.State == StateP2Next {
		mark = 'O'
	}
	board := []byte(g.Board)
	board[space-1] = mark
	next.Board = string(board)

	switch {
	case isWin(next.Board, 'X'):
		next.State = StateP1Win
	case isWin(next.Board, 'O'):
		next.State = StateP2Win
	case !strings.Contains(next.Board, "-"):
		next.State = StateTie
	case g.State == StateP1Next:
		next.State = StateP2Next
	default:
		next.State = StateP1Next
	}
	return &next, nil
}

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func isWin(board string, mark byte) bool {
	for _, line := range winLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}
	return false
}

// Render draws the board as three rows.
func (g *Game) Render() string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			b.WriteString("---|---|---\n")
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				b.WriteByte('|')
			}
			c := g.Board[row*3+col]
			if c == '-' {
				c = ' '
			}
			b.WriteByte(' ')
			b.WriteByte(c)
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
