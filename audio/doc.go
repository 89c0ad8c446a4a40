// SPDX-License-Identifier: EPL-2.0

// Package audio holds the streaming stages between a decoder and the MP3
// encoder.
//
// Every stage is a Source: a pull-based stream of interleaved float32
// samples in [-1, 1]. Stages wrap each other, and closing the outer one
// closes the chain.
//
//	var src audio.Source = decoded.Source()
//	src = audio.NewMonoMixer(src)         // average all channels
//	src = audio.NewResampler(src, 44100)  // cubic interpolation
//	planar, err := audio.ReadPlanar16(src)
//
// ReadPlanar16 drains a source into one int16 slice per channel, the layout
// MP3 encoders take.
//
// # Reading
//
// ReadSamples returns the number of values written, not frames, and may
// return the final values together with io.EOF:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Registry
//
// Registry maps format keys to decoders so a caller can choose one by file
// extension:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	registry.Register("mp3", mp3.Decoder{})
//	src, err := registry.Decode(filepath.Ext(name), f)
package audio
