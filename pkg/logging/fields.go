package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Simulation field helpers

func Component(name string) Field {
	return String("component", name)
}

func ProcessType(pt string) Field {
	return String("process_type", pt)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func ConnID(id string) Field {
	return String("conn_id", id)
}

func Chain(i int) Field {
	return Int("chain", i)
}

func Speed(s int) Field {
	return Int("speed", s)
}

func Tick(n int64) Field {
	return Int64("tick", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}
