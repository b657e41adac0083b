// flac-frame decodes the audio frames of FLAC files, recording a CPU profile
// of the decode for performance analysis.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/coreflac/flac"
)

func main() {
	f, err := os.Create("flac-frame.pprof")
	if err != nil {
		log.Println(err)
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		log.Println(err)
	}
	defer pprof.StopCPUProfile()

	flag.Parse()
	for _, path := range flag.Args() {
		if err := flacFrame(path); err != nil {
			log.Println(err)
		}
	}
}

// flacFrame decodes every audio frame of the FLAC file at path.
func flacFrame(path string) error {
	stream, err := flac.Open(path)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		if _, err := stream.ParseNext(); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
	}
	return nil
}
