// Package botstrap is the bootstrap layer of a trading-bot runner.
//
// Given a bot name it looks the bot up in the registry (schema.json in the
// working directory), loads the bot's three artifacts from its directory and
// returns a BotData descriptor:
//
//   - bot.*  must export a member named after the bot
//   - cfgs.* maps configuration profile names to options objects
//   - meta.* carries the bot metadata under its "default" member
//
// Artifacts may be written in JSON, YAML, TOML, HCL or CUE; the extension
// selects the decoder. Every resolution reads the files again, so a bot that
// is rebuilt while the host process keeps running is picked up on the next
// call.
//
// Usage:
//
//	r, err := botstrap.New(".", botstrap.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	// nil on any failure, with one "[ERROR] ..." line on stdout
//	data := r.Resolve(ctx, "MyBot")
//
//	// or, with the precise error
//	data, err := r.Load(ctx, "MyBot")
//
// Command-line arguments are parsed into a FlagMap with ParseArgs, and the
// token store (.tokens.json) is read with Tokens.
package botstrap
