// portaudio backend
package audio

import (
	"fmt"
	"strings"

	pa "github.com/gordonklaus/portaudio"
)

// Processor computes one block of stereo output from one block of stereo
// input. It is called on the audio thread.
type Processor interface {
	Process(inL, inR, outL, outR []float32)
}

type Stream struct {
	stream     *pa.Stream
	proc       Processor
	inChannels int
	info       string
}

// Open initializes PortAudio and opens the default duplex stream. Mono
// inputs are fed to both channels of the processor.
func Open(proc Processor, sampleRate float64, framesPerBuffer int) (*Stream, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("unable to setup portaudio: %w", err)
	}
	in, err := pa.DefaultInputDevice()
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("no default input: %w", err)
	}
	out, err := pa.DefaultOutputDevice()
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("no default output: %w", err)
	}
	s := &Stream{proc: proc, inChannels: min(in.MaxInputChannels, 2)}
	if s.inChannels < 1 {
		pa.Terminate()
		return nil, fmt.Errorf("%s has no input channel", in.Name)
	}
	s.stream, err = pa.OpenDefaultStream(s.inChannels, 2, sampleRate, framesPerBuffer, s.callback)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("unable to open stream: %w", err)
	}
	api, _ := pa.DefaultHostApi()
	apiName := "?"
	if api != nil {
		apiName = api.Type.String()
	}
	s.info = fmt.Sprintf("%s, %s: %s -> %s, %d in, %.f Hz",
		strings.Split(pa.VersionText(), ",")[0],
		apiName, in.Name, out.Name, s.inChannels,
		s.stream.Info().SampleRate)
	return s, nil
}

func (s *Stream) callback(in, out [][]float32) {
	if s.inChannels == 1 {
		s.proc.Process(in[0], in[0], out[0], out[1])
		return
	}
	s.proc.Process(in[0], in[1], out[0], out[1])
}

func (s *Stream) Start() error {
	return s.stream.Start()
}

func (s *Stream) SampleRate() float64 {
	return s.stream.Info().SampleRate
}

func (s *Stream) Info() string {
	return s.info
}

// Close stops the stream and terminates PortAudio.
func (s *Stream) Close() error {
	s.stream.Stop()
	err := s.stream.Close()
	if termErr := pa.Terminate(); err == nil {
		err = termErr
	}
	return err
}

// Devices lists the audio devices PortAudio can open.
func Devices() ([]string, error) {
	if err := pa.Initialize(); err != nil {
		return nil, err
	}
	defer pa.Terminate()
	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, fmt.Sprintf("%s (%d in, %d out, %.f Hz)",
			d.Name, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate))
	}
	return names, nil
}
