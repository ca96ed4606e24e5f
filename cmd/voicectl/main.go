// voicectl - interactive console client for a voiced session
// Dials the daemon's /ws/session endpoint and runs a conversation
// loop on stdin. Type "exit" or "quit" to end the session.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

type outbound struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type inbound struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
	Response  *struct {
		Reply     string   `json:"reply"`
		Tool      string   `json:"tool,omitempty"`
		MatchType string   `json:"match_type"`
		Ambiguous bool     `json:"ambiguous,omitempty"`
		Missing   []string `json:"missing,omitempty"`
	} `json:"response,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:8090", "voiced host:port")
	verbose := flag.Bool("v", false, "Show tool and match details")
	flag.Parse()

	url := fmt.Sprintf("ws://%s/ws/session", *addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to %s: %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	var hello inbound
	if err := conn.ReadJSON(&hello); err != nil {
		fmt.Fprintf(os.Stderr, "handshake: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("session %s - say something (exit to quit)\n", hello.SessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if err := conn.WriteJSON(outbound{Type: "utterance", Text: line}); err != nil {
			fmt.Fprintf(os.Stderr, "send: %v\n", err)
			break
		}

		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			fmt.Fprintf(os.Stderr, "receive: %v\n", err)
			break
		}

		switch {
		case msg.Error != "":
			fmt.Printf("error: %s\n", msg.Error)
		case msg.Response != nil:
			if *verbose && msg.Response.Tool != "" {
				fmt.Printf("[%s via %s]\n", msg.Response.Tool, msg.Response.MatchType)
			}
			fmt.Println(msg.Response.Reply)
		}
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
