package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/meridianhq/risk-engine/internal/stubs"
)

func main() {
	addr := flag.String("addr", ":8091", "listen address")
	fail := flag.Bool("fail", false, "inject failures on data endpoints")
	flag.Parse()

	server := stubs.NewSourceServer()
	server.SetFailing(*fail)

	log.Printf("stub execution source listening on %s (fail=%v)", *addr, *fail)
	log.Fatal(http.ListenAndServe(*addr, server.Routes()))
}
