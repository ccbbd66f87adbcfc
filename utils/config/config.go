package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// 推断策略名称
const (
	PolicyBaseline  = "baseline"
	PolicyKinematic = "kinematic"
)

// Default 参考实现的默认配置
// 功能：返回所有可调参数取参考值的配置
// 返回：默认配置
// 说明：扫描点默认为(200, 200)，与参考实现的单扫描点一致
func Default() Config {
	return Config{
		Control: Control{
			Step: ControlStep{Start: 0, Total: 1000, Interval: 1},
		},
		RSU: RSU{
			TxPowerDbm:              -10,
			RssiWaitingThresholdDbm: -70,
			Scanners:                []Scanner{{ID: "scanner", Pos: Point{X: 200, Y: 200}}},
			Policy:                  PolicyBaseline,
			MaxSpeed:                10,
			RssiValidRangeDbm:       [2]int{-90, -20},
			HistorySize:             120,
		},
		Pedestrian: Pedestrian{
			Radius:                10,
			StationaryShortFrames: 60,
			StationaryLongFrames:  180,
		},
		Signal: Signal{
			MinVehicleGreenTime: 300,
			VehicleYellowTime:   120,
			PedestrianWalkTime:  420,
			PedestrianFlashTime: 180,
		},
	}
}

// Load 解析YAML配置
// 功能：在默认配置的基础上覆盖YAML中给出的字段，并校验结果
// 参数：data-YAML文本
// 返回：配置与错误
// 说明：使用UnmarshalStrict，未知字段视为错误
func Load(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate 校验全部配置
func (c Config) Validate() error {
	if c.Control.Step.Interval <= 0 {
		return fmt.Errorf("%w: control.step.interval must be positive, got %v", ErrInvalidConfig, c.Control.Step.Interval)
	}
	if c.Control.Step.Total < 0 {
		return fmt.Errorf("%w: control.step.total must be non-negative, got %d", ErrInvalidConfig, c.Control.Step.Total)
	}
	if err := c.RSU.Validate(); err != nil {
		return err
	}
	if err := c.Pedestrian.Validate(); err != nil {
		return err
	}
	if err := c.Signal.Validate(); err != nil {
		return err
	}
	return c.Scenario.Validate()
}

// Validate 校验路侧单元配置
func (r RSU) Validate() error {
	if len(r.Scanners) == 0 {
		return fmt.Errorf("%w: rsu.scanners must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(r.Scanners))
	for _, s := range r.Scanners {
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: duplicated scanner id %q", ErrInvalidConfig, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	switch r.Policy {
	case "", PolicyBaseline:
	case PolicyKinematic:
		if r.MaxSpeed <= 0 {
			return fmt.Errorf("%w: rsu.max_speed must be positive for kinematic policy, got %d", ErrInvalidConfig, r.MaxSpeed)
		}
	default:
		return fmt.Errorf("%w: unknown rsu.policy %q", ErrInvalidConfig, r.Policy)
	}
	if r.ShadowFadingSigmaDb < 0 {
		return fmt.Errorf("%w: rsu.shadow_fading_sigma_db must be non-negative, got %v", ErrInvalidConfig, r.ShadowFadingSigmaDb)
	}
	if r.ShadowFadingSigmaDb > 0 && r.RssiValidRangeDbm[0] >= r.RssiValidRangeDbm[1] {
		return fmt.Errorf("%w: rsu.rssi_valid_range_dbm %v is empty", ErrInvalidConfig, r.RssiValidRangeDbm)
	}
	if r.HistorySize < 0 {
		return fmt.Errorf("%w: rsu.history_size must be non-negative, got %d", ErrInvalidConfig, r.HistorySize)
	}
	return nil
}

// Validate 校验运动状态阈值
// 说明：阈值必须为正且short < long，否则状态分类不可达或抖动
func (p Pedestrian) Validate() error {
	if p.StationaryShortFrames <= 0 {
		return fmt.Errorf("%w: pedestrian.stationary_short_frames must be positive, got %d", ErrInvalidConfig, p.StationaryShortFrames)
	}
	if p.StationaryLongFrames <= 0 {
		return fmt.Errorf("%w: pedestrian.stationary_long_frames must be positive, got %d", ErrInvalidConfig, p.StationaryLongFrames)
	}
	if p.StationaryShortFrames >= p.StationaryLongFrames {
		return fmt.Errorf(
			"%w: pedestrian.stationary_short_frames %d must be less than stationary_long_frames %d",
			ErrInvalidConfig, p.StationaryShortFrames, p.StationaryLongFrames,
		)
	}
	if p.Radius < 0 {
		return fmt.Errorf("%w: pedestrian.radius must be non-negative, got %d", ErrInvalidConfig, p.Radius)
	}
	return nil
}

// Validate 校验信号灯配时
func (s Signal) Validate() error {
	for name, v := range map[string]int{
		"min_vehicle_green_time": s.MinVehicleGreenTime,
		"vehicle_yellow_time":    s.VehicleYellowTime,
		"pedestrian_walk_time":   s.PedestrianWalkTime,
		"pedestrian_flash_time":  s.PedestrianFlashTime,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: signal.%s must be positive, got %d", ErrInvalidConfig, name, v)
		}
	}
	return nil
}

// Validate 校验场景配置
func (s Scenario) Validate() error {
	seen := make(map[string]struct{}, len(s.Pedestrians))
	for _, p := range s.Pedestrians {
		if p.ID == "" {
			return fmt.Errorf("%w: scenario pedestrian id must not be empty", ErrInvalidConfig)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: duplicated scenario pedestrian id %q", ErrInvalidConfig, p.ID)
		}
		seen[p.ID] = struct{}{}
		if len(p.Waypoints) > 0 && p.Speed <= 0 {
			return fmt.Errorf("%w: scenario pedestrian %q has waypoints but no speed", ErrInvalidConfig, p.ID)
		}
	}
	if s.SpawnEvery < 0 {
		return fmt.Errorf("%w: scenario.spawn_every must be non-negative, got %d", ErrInvalidConfig, s.SpawnEvery)
	}
	if s.SpawnEvery > 0 {
		if s.WalkSpeed <= 0 {
			return fmt.Errorf("%w: scenario.walk_speed must be positive when spawning", ErrInvalidConfig)
		}
		a, b := s.SpawnArea[0], s.SpawnArea[1]
		if a.X > b.X || a.Y > b.Y {
			return fmt.Errorf("%w: scenario.spawn_area %v is inverted", ErrInvalidConfig, s.SpawnArea)
		}
	}
	if s.MaliciousRatio < 0 || s.MaliciousRatio > 1 {
		return fmt.Errorf("%w: scenario.malicious_ratio must be in [0, 1], got %v", ErrInvalidConfig, s.MaliciousRatio)
	}
	if s.DetectionRange < 0 || s.MaxPedestrians < 0 {
		return fmt.Errorf("%w: scenario.detection_range and max_pedestrians must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 说明：未指定推断策略时使用baseline
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	if config.RSU.Policy == "" {
		config.RSU.Policy = PolicyBaseline
	}
	rc.All = config
	rc.C = config.Control

	return rc
}
