// Package output provides styled terminal output for the koa2 CLI.
//
// # Usage
//
// Create a Printer bound to the command's writers:
//
//	p := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
//	p.Success("Created koa2 app in ./myapp")
//	p.Info("Next steps:")
//	p.Step("cd myapp && npm install")
//	p.Error("option '--css <engine>' argument missing")
//
// # Logging
//
// Diagnostics use charmbracelet/log on stderr, at Debug level with
// --verbose and Warn level otherwise:
//
//	logger := output.NewLogger(cmd.ErrOrStderr(), verbose)
//	logger.Debug("planned files", "count", 11)
//
// # Styling
//
//   - Success: ✔ green bold
//   - Error: ❌ red bold (stderr)
//   - Warn: ⚠️ yellow bold (stderr)
//   - Info: cyan
//   - Step: indented gray
package output
