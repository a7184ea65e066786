package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"dishlens/internal/capture"
	"dishlens/internal/client"
)

// Command-line identification client: submits an image file through the same
// controller the UI uses and prints the resulting dish record.
func main() {
	server := flag.String("server", "http://localhost:8080", "identification server base URL")
	file := flag.String("file", "", "path to the image to identify")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	imageData, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("failed to read image: %v", err)
	}

	controller := capture.NewController(nil, client.New(*server))
	defer controller.Close()

	<-controller.SelectFile(imageData)

	if msg := controller.ErrMessage(); msg != "" {
		log.Fatalf("identification failed: %s", msg)
	}

	out, err := json.MarshalIndent(controller.Result(), "", "  ")
	if err != nil {
		log.Fatalf("failed to render result: %v", err)
	}
	fmt.Println(string(out))
}
