// Command jarvis is an interactive terminal client for the relay. It
// drives the streaming consumer end to end: type a question, watch the
// answer stream in, repeat with full conversation context.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"jarvis/internal/client"
	"jarvis/internal/domain/models/chat"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "relay base URL")
		userName = flag.String("name", "Ali", "display name")
		gender   = flag.String("gender", "male", "gender (male|female)")
		role     = flag.String("role", "student", "platform role (professor|student)")
		language = flag.String("lang", "ar", "response language (ar|en|fr)")
	)
	flag.Parse()

	identity := chat.Identity{
		DisplayName: *userName,
		Gender:      chat.Gender(*gender),
		Role:        chat.UserRole(*role),
	}

	session := client.NewSession(*baseURL, identity, *language)
	session.OnFragment = func(fragment string) {
		fmt.Print(fragment)
	}

	fmt.Printf("Jarvis CLI - session %s\n", session.ID)
	fmt.Println("Type a question and press enter. Ctrl-D exits.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}

		fmt.Println()
		if err := session.Send(context.Background(), prompt, nil); err != nil {
			fmt.Fprintf(os.Stderr, "\nsend failed: %v\n", err)
		}
		fmt.Println()
	}

	fmt.Printf("\n%d turns in this session\n", len(session.History()))
}
