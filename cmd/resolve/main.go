// resolve looks up a single symbol against metadata documents on disk.
// Run from project root: go run ./cmd/resolve -root ./testdata -file src/index.js -name Widget
// List a module's symbols instead: go run ./cmd/resolve -root ./testdata -file src/index.js -list
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/davidenochk/symgraph/internal/host/fshost"
	"github.com/davidenochk/symgraph/internal/resolver"
	"github.com/davidenochk/symgraph/internal/symbols"
)

func main() {
	root := flag.String("root", ".", "directory holding the metadata documents")
	file := flag.String("file", "", "module file path, relative to -root")
	name := flag.String("name", "", "symbol name to resolve")
	members := flag.String("members", "", "dot-separated member path (e.g. Widget.render)")
	moduleRoots := flag.String("module-roots", "node_modules", "comma-separated dependency roots under -root")
	list := flag.Bool("list", false, "list the symbols of -file instead of resolving one")
	flag.Parse()

	_ = godotenv.Load(".env") // ignore error if .env missing

	if *file == "" {
		log.Fatal("-file is required")
	}
	if !*list && *name == "" {
		log.Fatal("-name is required (or pass -list)")
	}

	roots := strings.Split(*moduleRoots, ",")
	host := fshost.New(*root, roots...)
	cache := symbols.NewCache()
	res := resolver.New(host, cache, nil, nil, nil)

	if *list {
		syms, err := res.SymbolsOf(*file)
		if err != nil {
			log.Fatalf("list symbols: %v", err)
		}
		for _, sym := range syms {
			fmt.Println(sym.ID())
		}
		return
	}

	var memberPath []string
	if *members != "" {
		memberPath = strings.Split(*members, ".")
	}

	resolved, err := res.ResolveSymbol(res.Intern(*file, *name, memberPath...))
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	if resolved == nil {
		fmt.Fprintf(os.Stderr, "symbol %s#%s not found\n", *file, *name)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(resolved.Metadata, "", "  ")
	if err != nil {
		log.Fatalf("encode metadata: %v", err)
	}
	fmt.Printf("Symbol: %s\n", resolved.Symbol.ID())
	fmt.Printf("Metadata:\n%s\n", out)
}
