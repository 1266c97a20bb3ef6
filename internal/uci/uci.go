// Package uci implements the Universal Chess Interface text protocol:
// read commands from stdin, drive an engine.Worker, write "info"/"bestmove"
// lines to stdout. Errors and warnings go through internal/logging; the
// "d" and "perft" debug commands print to stdout, "d" using fatih/color
// for the side-to-move line.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wrenfield/corvid/internal/board"
	"github.com/wrenfield/corvid/internal/chesserr"
	"github.com/wrenfield/corvid/internal/engine"
	"github.com/wrenfield/corvid/internal/logging"
	"github.com/wrenfield/corvid/internal/search"
)

var log = logging.Get()

// UCI implements the Universal Chess Interface protocol over a single
// engine.Worker.
type UCI struct {
	worker   *engine.Worker
	position *board.Position

	cancel context.CancelFunc
}

// New creates a UCI handler driving worker. Run starts the worker's
// goroutine and must be called before any command is processed.
func New(worker *engine.Worker) *UCI {
	return &UCI{
		worker:   worker,
		position: board.NewPosition(),
	}
}

// Run starts the worker goroutine and the UCI main loop. It returns when
// "quit" is received or stdin is closed.
func (u *UCI) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	go func() {
		if err := u.worker.Run(ctx); err != nil && err != context.Canceled {
			log.Errorf("worker stopped: %v", err)
		}
	}()
	go u.pump()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.position = board.NewPosition()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.worker.Stop()
		case "quit":
			u.handleQuit()
			return
		case "setoption":
			u.handleSetOption(args)
		case "d":
			u.handleDebugPrint()
		case "perft":
			u.handlePerft(args)
		}
	}
}

// pump forwards the worker's asynchronous info/bestmove channels to stdout
// for the lifetime of the process.
func (u *UCI) pump() {
	for {
		select {
		case info, ok := <-u.worker.Info():
			if !ok {
				return
			}
			u.sendInfo(info)
		case move, ok := <-u.worker.BestMove():
			if !ok {
				return
			}
			fmt.Printf("bestmove %s\n", move.String())
		}
	}
}

func (u *UCI) handleUCI() {
	fmt.Println("id name Corvid")
	fmt.Println("id author wrenfield")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name Debug type check default false")
	fmt.Println("uciok")
}

// handlePosition parses and sets up a position. Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = 1
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}
		fenStr := strings.Join(args[1:fenEnd], " ")
		pos, err := board.ParseFEN(fenStr)
		if err != nil {
			log.Errorf("position fen %q: %v", fenStr, err)
			return
		}
		u.position = pos
		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	default:
		return
	}

	if moveStart < len(args) {
		for i, moveStr := range args[moveStart:] {
			move := u.parseMove(moveStr)
			if move == board.NoMove {
				log.Errorf("%v", chesserr.InvalidMove(fmt.Sprintf("position command: move %d (%s)", i, moveStr)))
				return
			}
			u.position.MakeMove(move)
		}
	}
}

// parseMove converts a UCI move string to a board.Move by matching it
// against the position's legal moves.
func (u *UCI) parseMove(moveStr string) board.Move {
	if len(moveStr) < 4 {
		return board.NoMove
	}

	from, err := board.ParseSquare(moveStr[0:2])
	if err != nil {
		return board.NoMove
	}
	to, err := board.ParseSquare(moveStr[2:4])
	if err != nil {
		return board.NoMove
	}

	var promo board.PieceType
	if len(moveStr) == 5 {
		switch moveStr[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	moves := u.position.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if promo != 0 {
			if m.IsPromotion() && m.Promotion() == promo {
				return m
			}
			continue
		}
		if !m.IsPromotion() {
			return m
		}
	}
	return board.NoMove
}

// goOptions holds parsed "go" command arguments.
type goOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	limits := search.Limits{
		Depth:     opts.Depth,
		Nodes:     opts.Nodes,
		MoveTime:  opts.MoveTime,
		Infinite:  opts.Infinite,
		MovesToGo: opts.MovesToGo,
	}
	limits.Time[board.White] = opts.WTime
	limits.Time[board.Black] = opts.BTime
	limits.Inc[board.White] = opts.WInc
	limits.Inc[board.Black] = opts.BInc

	req := engine.GoRequest{Pos: u.position.Copy(), Limits: limits}
	go u.worker.Go(req)
}

func (u *UCI) parseGoOptions(args []string) goOptions {
	var opts goOptions

	next := func(i int) (string, bool) {
		if i+1 < len(args) {
			return args[i+1], true
		}
		return "", false
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if v, ok := next(i); ok {
				opts.Depth, _ = strconv.Atoi(v)
				i++
			}
		case "nodes":
			if v, ok := next(i); ok {
				opts.Nodes, _ = strconv.ParseUint(v, 10, 64)
				i++
			}
		case "movetime":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if v, ok := next(i); ok {
				opts.MovesToGo, _ = strconv.Atoi(v)
				i++
			}
		}
	}

	return opts
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.Info) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	switch {
	case info.Score > search.MateScore-100:
		mateIn := (search.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	case info.Score < -search.MateScore+100:
		mateIn := -(search.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	parts = append(parts, fmt.Sprintf("hashfull %d", u.worker.HashFull()))

	if len(info.PV) > 0 {
		pvStrs := make([]string, len(info.PV))
		for i, m := range info.PV {
			pvStrs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pvStrs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

func (u *UCI) handleQuit() {
	u.worker.Stop()
	u.worker.Quit()
	if u.cancel != nil {
		u.cancel()
	}
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "debug":
		if strings.ToLower(value) == "true" {
			logging.SetLevel("DEBUG")
		} else {
			logging.SetLevel("WARNING")
		}
	case "hash":
		// The transposition table is sized once at startup from config;
		// resizing it mid-game would require rebuilding the Worker.
		log.Warningf("setoption hash ignored after startup; set hash_mb in the config file")
	}
}

// handleDebugPrint implements the "d" debug command: a board diagram plus
// FEN and hash, with the side to move highlighted.
func (u *UCI) handleDebugPrint() {
	fmt.Println(u.position.String())

	sideLabel := color.New(color.FgHiWhite, color.Bold)
	if u.position.SideToMove == board.Black {
		sideLabel = color.New(color.FgHiBlack, color.Bold)
	}
	sideLabel.Printf("Side to move: %s\n", u.position.SideToMove)

	fmt.Printf("Fen: %s\n", u.position.ToFEN())
	fmt.Printf("Key: %016X\n", u.position.Hash)
}

// handlePerft runs a perft node-count test from the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	pos := u.position.Copy()
	start := time.Now()
	nodes := perft(pos, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("NPS: %.0f\n", nps)
	}
}

func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		pos.MakeMove(moves.Get(i))
		nodes += perft(pos, depth-1)
		pos.UnmakeMove()
	}
	return nodes
}
