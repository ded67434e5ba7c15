/*
Package queuen is an interpreter for the queuen expression language, whose
only values are queues: lazy, copyable streams whose elements are themselves
queues.

The pipeline runs text through a refilling lexer, a reducing parser, and a
lazy queue evaluator:

	text + refill → lex.TokenStream → parse.Line → ast.Node → queue.Build → drive.Print

Interactive use goes through the repl package; script files are collected
into a Bundle, compiled into a Registry, and run statement by statement:

	registry, err := queuen.NewBundle().
		AddScriptDir("scripts").
		Compile()
	if err != nil {
		log.Fatal(err)
	}
	registry.RunAll(os.Stdout, drive.Limit)

A bundle built with WatchFiles(true) recompiles a script whenever its file
changes, for live development.
*/
package queuen
