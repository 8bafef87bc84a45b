// Package flags adds CLI-style flags to chat commands.
//
// A command declares flags in a Registry, each with one or more aliases
// ("-n", "--count") and a Converter. Parse then walks the tokens that follow a
// command's positional arguments:
//
//	reg := flags.NewRegistry()
//	reg.Add("count", []string{"-n", "--count"}, flags.WithConverter(flags.Int()))
//	reg.Add("title", []string{"--title"}, flags.Greedy())
//
//	vals, _ := flags.Parse(ctx, []string{"--count", "1", "2", "--title", "big", "news"}, reg, nil)
//	// vals["count"] == []any{1, 2}, vals["title"] == "big news"
package flags
