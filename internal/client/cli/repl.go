package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode"
)

type command struct {
	usage string
	help  string
	run   func(a *App, ctx context.Context, args []string) error
}

type namedCommand struct {
	name string
	cmd  command
}

// commandList returns the commands in help order.
func commandList() []namedCommand {
	return []namedCommand{
		{"game", command{"game [magic|pokemon]", "show or switch the active game", (*App).cmdGame}},
		{"list", command{"list", "show the table", (*App).cmdList}},
		{"filter", command{"filter [text]", "keep rows containing text; no text clears", (*App).cmdFilter}},
		{"sort", command{"sort <column>", "sort by column; repeat to flip direction", (*App).cmdSort}},
		{"select", command{"select <id>", "select a record and show it", (*App).cmdSelect}},
		{"show", command{"show", "show the selected record", (*App).cmdShow}},
		{"delete", command{"delete", "delete the selected record and its images", (*App).cmdDelete}},
		{"add", command{"add", "open the form for a new record", (*App).cmdAdd}},
		{"edit", command{"edit", "open the form on the selected record", (*App).cmdEdit}},
		{"draft", command{"draft", "show the form", (*App).cmdDraft}},
		{"choices", command{"choices", "list the languages, conditions and sets of the form", (*App).cmdChoices}},
		{"set", command{"set <field> <value>", "change a form field", (*App).cmdSet}},
		{"flag", command{"flag <key> <true|false>", "change a game attribute in the form", (*App).cmdFlag}},
		{"attach", command{"attach <file>...", "copy images into the collection and attach them", (*App).cmdAttach}},
		{"detach", command{"detach <n|image>", "delete an attached image", (*App).cmdDetach}},
		{"submit", command{"submit", "save the form", (*App).cmdSubmit}},
		{"close", command{"close", "discard the form", (*App).cmdClose}},
		{"image", command{"image <n>", "view image n of the form or the selected record", (*App).cmdImage}},
		{"next", command{"next", "view the next image", (*App).cmdNext}},
		{"prev", command{"prev", "view the previous image", (*App).cmdPrev}},
		{"sets", command{"sets [update]", "list the set catalogue or download it again", (*App).cmdSets}},
		{"setfind", command{"setfind <text>", "search sets by id or name", (*App).cmdSetFind}},
		{"settings", command{"settings [datadir <dir>|game <game>]", "show or change the settings", (*App).cmdSettings}},
		{"import", command{"import <collection.json>", "import a collection file of the previous version", (*App).cmdImport}},
	}
}

func (a *App) printHelp() {
	for _, e := range commandList() {
		a.printf("  %-38s %s\n", e.cmd.usage, e.cmd.help)
	}
	a.printf("  %-38s %s\n", "exit", "leave, discarding an open form")
	a.println(`Use double quotes for arguments with spaces: attach "my scans/front.png"`)
}

// runREPL reads commands until the input ends or the user exits. Failed
// commands are reported and the loop goes on.
type readResult struct {
	line string
	err  error
}

// readLine reads one input line, giving up when ctx is done. The pending
// read is left behind in that case; the REPL is exiting anyway.
func (a *App) readLine(ctx context.Context) (string, error) {
	ch := make(chan readResult, 1)
	go func() {
		line, err := a.in.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

// errUnterminatedQuote is returned for a line with an odd number of quotes.
var errUnterminatedQuote = errors.New("unterminated quote")

// splitArgs splits a command line on white space. Double quotes group words
// and keep their inner spacing; other characters, apostrophes and "#"
// included, are literal.
func splitArgs(line string) ([]string, error) {
	var (
		args   []string
		cur    strings.Builder
		inWord bool
		quoted bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case unicode.IsSpace(r) && !quoted:
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quoted {
		return nil, errUnterminatedQuote
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}

func runREPL(ctx context.Context, a *App) {
	cmds := make(map[string]command)
	for _, e := range commandList() {
		cmds[e.name] = e.cmd
	}

	for {
		a.printf("%s", a.prompt())
		line, err := a.readLine(ctx)
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			a.println()
			return
		}
		parts, err := splitArgs(line)
		if err != nil {
			a.notify(ctx, "parse", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "help", "?":
			a.printHelp()
			continue
		case "exit", "quit":
			a.println("Bye!")
			return
		}

		c, ok := cmds[name]
		if !ok {
			a.println("Unknown command:", name)
			continue
		}
		if err := c.run(a, ctx, args); err != nil {
			a.notify(ctx, name, err)
		}
	}
}
