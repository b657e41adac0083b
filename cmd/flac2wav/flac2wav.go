// flac2wav is a tool which converts FLAC files to WAV files.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"

	"github.com/coreflac/flac"
)

// flagForce specifies if file overwriting should be forced, when a WAV file
// of the same name already exists.
var flagForce bool

func init() {
	flag.BoolVar(&flagForce, "f", false, "Force overwrite.")
}

func main() {
	flag.Parse()
	for _, path := range flag.Args() {
		if err := flac2wav(path); err != nil {
			log.Fatal(err)
		}
	}
}

// flac2wav converts the provided FLAC file to a WAV file.
func flac2wav(path string) error {
	stream, err := flac.Open(path)
	if err != nil {
		return err
	}
	defer stream.Close()

	wavPath := pathutil.TrimExt(path) + ".wav"
	if !flagForce {
		exists, err := osutil.Exists(wavPath)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("the file %q exists already", wavPath)
		}
	}
	fw, err := os.Create(wavPath)
	if err != nil {
		return err
	}
	defer fw.Close()

	nchannels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	enc := wav.NewEncoder(fw, int(stream.Info.SampleRate), bitDepth, nchannels, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nchannels, SampleRate: int(stream.Info.SampleRate)},
		SourceBitDepth: bitDepth,
	}
	for {
		f, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		// WAV interleaves samples by channel; decoded subframes are one slice
		// per channel, so the buffer is rebuilt per frame.
		nsamples := 0
		if len(f.SubFrames) > 0 {
			nsamples = len(f.SubFrames[0].Samples)
		}
		buf.Data = buf.Data[:0]
		for i := 0; i < nsamples; i++ {
			for _, subframe := range f.SubFrames {
				buf.Data = append(buf.Data, int(subframe.Samples[i]))
			}
		}
		if err := enc.Write(buf); err != nil {
			return err
		}
	}

	return nil
}
