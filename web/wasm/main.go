//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-autotune/dsp/core"
	"github.com/cwbudde/algo-autotune/dsp/engine"
	"github.com/cwbudde/algo-autotune/dsp/pitch"
	"github.com/cwbudde/algo-autotune/dsp/vocoder"
)

var (
	corrector *engine.Corrector
	funcs     []js.Func

	inBuf  []float64
	outBuf []float64
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		c, err := engine.NewCorrector(sr)
		if err != nil {
			return err.Error()
		}
		corrector = c
		return js.Null()
	}))

	api.Set("setEnabled", export(func(args []js.Value) any {
		if corrector == nil || len(args) < 1 {
			return js.Null()
		}
		corrector.SetEnabled(args[0].Bool())
		return js.Null()
	}))

	api.Set("setStrength", export(func(args []js.Value) any {
		if corrector == nil || len(args) < 1 {
			return js.Null()
		}
		if err := corrector.SetStrengthPercent(args[0].Int()); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setSpeed", export(func(args []js.Value) any {
		if corrector == nil || len(args) < 1 {
			return js.Null()
		}
		if err := corrector.SetSpeedPercent(args[0].Int()); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setKey", export(func(args []js.Value) any {
		if corrector == nil || len(args) < 2 {
			return js.Null()
		}
		mode := pitch.Major
		if args[1].Bool() {
			mode = pitch.Minor
		}
		if err := corrector.SetKey(pitch.PitchClass(args[0].Int()), mode); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setEffect", export(func(args []js.Value) any {
		if corrector == nil || len(args) < 1 {
			return js.Null()
		}
		if err := corrector.SetEffect(vocoder.Effect(args[0].Int())); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setDetectionInterval", export(func(args []js.Value) any {
		if corrector == nil || len(args) < 1 {
			return js.Null()
		}
		if err := corrector.SetDetectionInterval(args[0].Int()); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("process", export(func(args []js.Value) any {
		if corrector == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		input := args[0]
		n := input.Length()
		inBuf = core.EnsureLen(inBuf, n)
		outBuf = core.EnsureLen(outBuf, n)
		for i := 0; i < n; i++ {
			inBuf[i] = input.Index(i).Float()
		}
		if err := corrector.Process(outBuf, inBuf); err != nil {
			return err.Error()
		}
		arr := js.Global().Get("Float32Array").New(n)
		for i := 0; i < n; i++ {
			arr.SetIndex(i, outBuf[i])
		}
		return arr
	}))

	api.Set("pitch", export(func(args []js.Value) any {
		if corrector == nil {
			return js.Null()
		}
		var latest engine.PitchUpdate
		seen := false
		for {
			select {
			case u := <-corrector.Telemetry():
				latest = u
				seen = true
			default:
				if !seen {
					return js.Null()
				}
				obj := js.Global().Get("Object").New()
				obj.Set("frequency", latest.Frequency)
				obj.Set("voiced", latest.Voiced)
				obj.Set("timestampMs", float64(latest.TimestampMs))
				return obj
			}
		}
	}))

	api.Set("latency", export(func(args []js.Value) any {
		if corrector == nil {
			return 0
		}
		return corrector.Latency()
	}))

	js.Global().Set("AlgoAutotune", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
