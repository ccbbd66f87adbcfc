package entity

import (
	"github.com/tsinghua-fib-lab/agentsociety-rsu/clock"
	"github.com/tsinghua-fib-lab/agentsociety-rsu/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
}
