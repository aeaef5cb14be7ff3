package botstrap_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/botstrap"
)

// Example_resolve lays out a work directory with one bot and resolves it.
func Example_resolve() {
	tmpDir, err := os.MkdirTemp("", "botstrap-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	files := map[string]string{
		"schema.json":       `[{"name": "MyBot", "path": "./bots/my", "src": "./bots/my/src"}]`,
		"bots/my/bot.json":  `{"MyBot": {"src": "src"}}`,
		"bots/my/cfgs.yaml": "default:\n  ticker: BTCUSDT\n",
		"bots/my/meta.toml": "[default]\nversion = \"1\"\n",
	}
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			log.Fatal(err)
		}
	}

	r, err := botstrap.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	data := r.Resolve(context.Background(), "MyBot")
	fmt.Println(data.Meta["version"], data.Configs["default"]["ticker"])

	// Unknown bots resolve to nil with a single diagnostic line.
	fmt.Println(r.Resolve(context.Background(), "Ghost") == nil)
	// Output:
	// 1 BTCUSDT
	// [ERROR] Bot data in schema.json not found: bot not found in registry: Ghost
	// true
}

// ExampleParseArgs shows the three recognized token shapes.
func ExampleParseArgs() {
	flags := botstrap.ParseArgs([]string{"--ticker=BTCUSDT", "--live", "-vq", "ignored"})

	ticker, _ := flags.String("ticker")
	fmt.Println(ticker, flags.Bool("live"), flags.Bool("v"), flags.Bool("q"), flags.Has("ignored"))
	// Output:
	// BTCUSDT true true true false
}

// ExampleTyped decodes a resolved bot into concrete types.
func ExampleTyped() {
	data := &botstrap.BotData{
		Configs: botstrap.ConfigSet{"default": {"ticker": "ETHUSDT", "amount": 2.5}},
		Meta:    botstrap.DebutMeta{"version": "3"},
	}

	type options struct {
		Ticker string  `json:"ticker"`
		Amount float64 `json:"amount"`
	}
	type meta struct {
		Version string `json:"version"`
	}

	bot, err := botstrap.Typed[options, meta](data)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s %.1f v%s\n", bot.Configs["default"].Ticker, bot.Configs["default"].Amount, bot.Meta.Version)
	// Output:
	// ETHUSDT 2.5 v3
}
