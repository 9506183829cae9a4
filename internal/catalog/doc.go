// Package catalog provides the static feature registry used to scaffold
// Koa 2 applications.
//
// # Features
//
// A feature is a selectable capability that contributes files and npm
// dependencies to a generated project:
//
//   - base: always applied (app.js, bin/www, package.json, routes, ...)
//   - view engines: nunjucks (default), ejs, hbs, hjs, pug, twig, vash, none
//   - CSS engines: css (default), less, stylus, compass, sass
//   - git: .gitignore
//
// The registry is declared in the embedded catalog.yml; file contents live
// next to it under templates/. Static files are copied verbatim (this is
// where view templates belong, since their syntax is meant for the engine
// that runs the generated app). Parametrized files are Go text/templates
// restricted to the placeholders in Context.
//
// # Loading
//
// Default loads and validates the embedded catalog once per process:
//
//	cat := catalog.Default()
//	view, legacy, ok := cat.View("jade") // pug, legacy=true
//
// Load reports every InvariantError it finds; none of them can be caused by
// user input.
package catalog
