package rest

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type cellView struct {
	Index  int
	Mark   string
	Winner bool
}

type pageData struct {
	ID          string
	Rows        [3][3]cellView
	Status      string
	ToggleLabel string
	Ascending   bool
	Moves       []tictactoe.MoveView
}

// newPageData lays the snapshot out the way the page draws it.
func newPageData(snapshot *tictactoe.Snapshot) pageData {
	data := pageData{
		ID:          snapshot.GameID,
		Status:      snapshot.Status.Text,
		ToggleLabel: snapshot.ToggleLabel,
		Ascending:   snapshot.Ascending,
		Moves:       snapshot.Moves,
	}

	for cell := 0; cell < entity.BoardSize; cell++ {
		data.Rows[cell/3][cell%3] = cellView{
			Index:  cell,
			Mark:   snapshot.Board[cell].String(),
			Winner: snapshot.Win.Contains(cell),
		}
	}

	return data
}

type templates struct {
	index *template.Template
	game  *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(baseTemplate))

	return &templates{
		index: template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate)),
		game:  template.Must(template.Must(base.Clone()).New("content").Parse(gameTemplate)),
	}
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	return buf.Bytes(), nil
}

const baseTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8"/>
<title>Tic-tac-toe</title>
<style>
.board-row { display: flex; }
.square { width: 34px; height: 34px; font-weight: bold; }
.square.winner { background: #ff0; }
.board-row form, .game-info form { display: inline; margin: 0; }
</style>
</head>
<body>{{template "content" .}}</body>
</html>`

const indexTemplate = `<h1>Tic-tac-toe</h1>
<form action="/game" method="post"><button>New game</button></form>`

const gameTemplate = `<div class="game" id="game-{{.ID}}">
  <div class="game-board">
    {{- range .Rows}}
    <div class="board-row">
      {{- range .}}
      <form action="/game/{{$.ID}}/cells/{{.Index}}" method="post"><button class="square{{if .Winner}} winner{{end}}">{{.Mark}}</button></form>
      {{- end}}
    </div>
    {{- end}}
  </div>
  <div class="game-info">
    <div class="status">{{.Status}}</div>
    <div><form action="/game/{{.ID}}/order" method="post"><button>{{.ToggleLabel}}</button></form></div>
    {{if .Ascending}}<ol>{{else}}<ol reversed>{{end}}
      {{- range .Moves}}
      <li><form action="/game/{{$.ID}}/history/{{.Step}}" method="post"><button>{{if .Selected}}<b>{{.Description}}</b>{{else}}{{.Description}}{{end}}</button></form></li>
      {{- end}}
    </ol>
  </div>
</div>`
