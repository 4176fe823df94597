// Command cli runs a local game table in the terminal: one registry, a
// JSON file score store, and an interactive menu over both.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"kaliteedi/internal/app"
	"kaliteedi/internal/domain"
	"kaliteedi/internal/scorestore"
)

const scoreFile = "kali_scores.json"

type table struct {
	registry *app.Registry
	roomCode string
}

func main() {
	store, err := scorestore.NewFileStore(scoreFile)
	if err != nil {
		pterm.Fatal.Printfln("open score file: %v", err)
	}

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Kali ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Teedi", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}
	pterm.Println()

	t := &table{registry: app.NewRegistry(store, nil)}
	options := []string{
		"Create room",
		"Add player",
		"Set rules",
		"Start game",
		"Play round",
		"Scoreboard",
		"Round history",
		"Saved games",
		"Quit",
	}
	for {
		choice, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("What next?").
			WithOptions(options).Show()

		switch choice {
		case "Create room":
			t.createRoom()
		case "Add player":
			t.addPlayer()
		case "Set rules":
			t.setRules()
		case "Start game":
			t.startGame()
		case "Play round":
			t.playRound()
		case "Scoreboard":
			t.scoreboard()
		case "Round history":
			t.roundHistory()
		case "Saved games":
			t.savedGames()
		case "Quit":
			pterm.Println("Thanks for playing.")
			return
		}
		pterm.Println()
	}
}

func (t *table) requireRoom() bool {
	if t.roomCode == "" {
		pterm.Warning.Println("Create a room first.")
		return false
	}
	return true
}

func (t *table) createRoom() {
	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Host name").Show()
	hostID := uuid.NewString()

	info, _, err := t.registry.CreateRoom(hostID, name)
	if err != nil {
		pterm.Error.Printfln("create room: %v", err)
		return
	}
	t.roomCode = info.Code
	pterm.Success.Printfln("Room %s open, %s is hosting.", info.Code, name)
}

func (t *table) addPlayer() {
	if !t.requireRoom() {
		return
	}
	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Player name").Show()

	info, _, err := t.registry.AddPlayer(t.roomCode, uuid.NewString(), name)
	if err != nil {
		pterm.Error.Printfln("add player: %v", err)
		return
	}
	pterm.Success.Printfln("%s joined room %s.", info.DisplayName, t.roomCode)
}

func (t *table) setRules() {
	if !t.requireRoom() {
		return
	}
	points := promptInt("Points per remaining card", 1)
	rules := domain.PointsRules{PointsPerRemainingCard: points}

	if useBonus, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Fix the winner bonus instead of the default payout?").Show(); useBonus {
		bonus := promptInt("Winner bonus", 0)
		rules.WinnerBonus = &bonus
	}

	if _, err := t.registry.SetPointsRules(t.roomCode, rules); err != nil {
		pterm.Error.Printfln("set rules: %v", err)
		return
	}
	pterm.Success.Println("Rules updated.")
}

func (t *table) startGame() {
	if !t.requireRoom() {
		return
	}
	decks := promptInt("Number of decks", 1)

	info, _, err := t.registry.StartGame(t.roomCode, decks)
	if err != nil {
		pterm.Error.Printfln("start game: %v", err)
		return
	}
	pterm.Success.Printfln("Game on with %d players and %d deck(s).", len(info.Players), info.DeckCount)
}

func (t *table) playRound() {
	if !t.requireRoom() {
		return
	}
	spinner, _ := pterm.DefaultSpinner.Start("Dealing and draining hands...")
	result, _, err := t.registry.PlayRound(context.Background(), t.roomCode)
	if err != nil && !errors.Is(err, app.ErrStorageUnavailable) {
		spinner.Fail()
		pterm.Error.Printfln("play round: %v", err)
		return
	}
	spinner.Success()
	if err != nil {
		pterm.Warning.Printfln("round stands but was not saved: %v", err)
	}

	names := t.playerNames()
	pterm.Info.Printfln("Round %d: %d cards played, %s wins.",
		result.Round, len(result.PlaySequence), pterm.LightCyan(names[result.WinnerID]))
	t.scoreboard()
}

func (t *table) scoreboard() {
	if !t.requireRoom() {
		return
	}
	rows, err := t.registry.Scoreboard(t.roomCode)
	if err != nil {
		pterm.Error.Printfln("scoreboard: %v", err)
		return
	}

	data := pterm.TableData{{"Player", "Score"}}
	for _, row := range rows {
		data = append(data, []string{row.DisplayName, strconv.Itoa(row.Score)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (t *table) roundHistory() {
	if !t.requireRoom() {
		return
	}
	history, err := t.registry.RoundHistory(t.roomCode)
	if err != nil {
		pterm.Error.Printfln("round history: %v", err)
		return
	}
	if len(history) == 0 {
		pterm.Info.Println("No rounds played yet.")
		return
	}

	names := t.playerNames()
	data := pterm.TableData{{"Round", "Plays", "Winner"}}
	for _, r := range history {
		data = append(data, []string{
			strconv.Itoa(r.Round),
			strconv.Itoa(len(r.PlaySequence)),
			names[r.WinnerID],
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (t *table) savedGames() {
	if !t.requireRoom() {
		return
	}
	history, err := t.registry.ScoreHistory(context.Background(), t.roomCode)
	if err != nil {
		pterm.Error.Printfln("saved games: %v", err)
		return
	}
	if len(history) == 0 {
		pterm.Info.Println("Nothing saved for this room yet.")
		return
	}
	for i, snapshot := range history {
		pterm.Info.Printfln("Snapshot %d: %v", i+1, snapshot.Scores)
	}
}

func (t *table) playerNames() map[string]string {
	names := make(map[string]string)
	players, err := t.registry.Players(t.roomCode)
	if err != nil {
		return names
	}
	for _, p := range players {
		names[p.ID] = p.DisplayName
	}
	return names
}

func promptInt(label string, fallback int) int {
	raw, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText(fmt.Sprintf("%s (default %d)", label, fallback)).Show()
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
