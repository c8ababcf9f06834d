package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nishanshrestha04/pdf-reading-chatbot/internal/app"

	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgBlue, color.Bold).SprintFunc()
	botColor    = color.New(color.FgGreen, color.Bold).SprintFunc()
	errColor    = color.New(color.FgRed).SprintFunc()
	faintColor  = color.New(color.Faint).SprintFunc()
)

// runREPL is the fallback surface for terminals where the TUI is unwanted.
// Queries are typed directly; session actions use colon commands.
func runREPL(sess *app.Session, timeout time.Duration) error {
	fmt.Println("Chat with your PDF files. :attach <file.pdf>..., :lang en|ne, :files, :quit")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("%s ", promptColor("you>"))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, ":") {
			if quit := replCommand(sess, line, timeout); quit {
				return nil
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		answer, err := sess.SubmitQuery(ctx, line)
		cancel()
		switch err {
		case nil:
			fmt.Printf("%s %s\n", botColor("bot>"), answer.Text)
		case app.ErrEmptyQuery:
			// Blank input, nothing to do.
		case app.ErrBusy:
			fmt.Println(faintColor("still working on the previous request"))
		default:
			fmt.Println(errColor("Error: " + err.Error()))
		}
	}
}

func replCommand(sess *app.Session, line string, timeout time.Duration) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true

	case ":attach":
		if len(fields) < 2 {
			fmt.Println(faintColor("usage: :attach <file.pdf> [more.pdf ...]"))
			return false
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		atts, err := sess.SubmitFiles(ctx, fields[1:])
		cancel()
		if err != nil {
			fmt.Println(errColor("Error: " + err.Error()))
			return false
		}
		if len(atts) == 0 {
			fmt.Println(faintColor("no documents to attach"))
			return false
		}
		fmt.Println(faintColor(fmt.Sprintf("indexed %d document(s)", len(atts))))

	case ":lang":
		if len(fields) != 2 {
			fmt.Println(faintColor("usage: :lang en|ne"))
			return false
		}
		lang, ok := app.ParseLanguage(fields[1])
		if !ok {
			fmt.Println(faintColor("unknown language, expected en or ne"))
			return false
		}
		if err := sess.SetLanguage(lang); err != nil {
			fmt.Println(faintColor("cannot change language while a request is in flight"))
			return false
		}
		fmt.Println(faintColor("response language: " + string(lang)))

	case ":files":
		atts := sess.Attachments()
		if len(atts) == 0 {
			fmt.Println(faintColor("no documents attached"))
			return false
		}
		for _, att := range atts {
			fmt.Printf("  %s  %s\n", faintColor(att.ID[:8]), app.TruncateName(att.DisplayName, 30))
		}

	default:
		fmt.Println(faintColor("unknown command: " + fields[0]))
	}
	return false
}
