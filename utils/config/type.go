package config

// Point 配置文件中的整数坐标
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Scanner 路侧单元的一个蓝牙扫描点
// 功能：定义扫描点的名称与位置
type Scanner struct {
	ID  string `yaml:"id"`  // 扫描点名称
	Pos Point  `yaml:"pos"` // 扫描点位置
}

// RSU 路侧单元感知与推断配置
// 功能：定义信号强度模型、推断策略与扫描点
// 说明：shadow_fading_sigma_db为0时使用确定性的路径损耗模型
type RSU struct {
	TxPowerDbm              int       `yaml:"tx_power_dbm"`                     // 默认发射功率（dBm）
	RssiWaitingThresholdDbm int       `yaml:"rssi_waiting_threshold_dbm"`       // 判定为近距离等待的RSSI下限（dBm）
	Scanners                []Scanner `yaml:"scanners"`                         // 扫描点列表
	Policy                  string    `yaml:"policy,omitempty"`                 // 推断策略：baseline|kinematic
	MaxSpeed                int       `yaml:"max_speed,omitempty"`              // kinematic策略下行人每步最大合理位移
	ShadowFadingSigmaDb     float64   `yaml:"shadow_fading_sigma_db,omitempty"` // 阴影衰落标准差（dB）
	RssiValidRangeDbm       [2]int    `yaml:"rssi_valid_range_dbm,omitempty"`   // 有效RSSI范围，仅在阴影衰落开启时生效
	HistorySize             int       `yaml:"history_size,omitempty"`           // 每个行人保留的RSSI历史长度
	Seed                    uint64    `yaml:"seed,omitempty"`                   // 随机种子
}

// Pedestrian 行人运动状态判定配置
type Pedestrian struct {
	Radius                int `yaml:"radius"`                  // 检测半径
	StationaryShortFrames int `yaml:"stationary_short_frames"` // 短时静止阈值（步）
	StationaryLongFrames  int `yaml:"stationary_long_frames"`  // 长时静止阈值（步）
}

// Signal 信号灯配时配置，单位均为步
type Signal struct {
	JunctionID          int32 `yaml:"junction_id"`            // 所控制的路口ID，用于RPC查询
	MinVehicleGreenTime int   `yaml:"min_vehicle_green_time"` // 机动车最小绿灯时间
	VehicleYellowTime   int   `yaml:"vehicle_yellow_time"`    // 机动车黄灯时间
	PedestrianWalkTime  int   `yaml:"pedestrian_walk_time"`   // 行人通行时间
	PedestrianFlashTime int   `yaml:"pedestrian_flash_time"`  // 行人闪烁时间
}

// ScenarioPedestrian 场景中预置的行人
// 功能：定义初始位置、途经点与行为标记
type ScenarioPedestrian struct {
	ID        string  `yaml:"id"`
	Pos       Point   `yaml:"pos"`
	Velocity  Point   `yaml:"velocity,omitempty"`  // 无途经点时使用的固定速度
	Waypoints []Point `yaml:"waypoints,omitempty"` // 途经点，走完后静止
	Speed     int     `yaml:"speed,omitempty"`     // 沿途经点行走的每步位移
	Malicious bool    `yaml:"malicious,omitempty"` // 恶意行为者
	Button    bool    `yaml:"button,omitempty"`    // 按下过街按钮
}

// Scenario 仿真场景配置
// 说明：spawn_every为0时不随机生成行人
type Scenario struct {
	Pedestrians    []ScenarioPedestrian `yaml:"pedestrians,omitempty"`
	SpawnEvery     int32                `yaml:"spawn_every,omitempty"`     // 随机生成行人的间隔步数
	SpawnArea      [2]Point             `yaml:"spawn_area,omitempty"`      // 随机生成区域（左上、右下）
	WaitPoint      Point                `yaml:"wait_point,omitempty"`      // 随机行人的等待点
	WalkSpeed      int                  `yaml:"walk_speed,omitempty"`      // 随机行人的每步位移
	DetectionRange int                  `yaml:"detection_range,omitempty"` // 超出所有扫描点该距离的行人被移除，0表示不移除
	MaxPedestrians int                  `yaml:"max_pedestrians,omitempty"` // 同时存在的最大行人数
	Seed           uint64               `yaml:"seed,omitempty"`            // 随机生成行人的种子
	MaliciousRatio float64              `yaml:"malicious_ratio,omitempty"` // 随机行人为恶意行人的概率
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的时间范围、步长
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
}

// Config YAML配置文件的根结构
// 功能：定义整个路侧单元仿真的配置结构
// 说明：包含控制、感知、运动、配时与场景配置项
type Config struct {
	Control    Control    `yaml:"control"`            // 模拟过程控制
	RSU        RSU        `yaml:"rsu"`                // 路侧单元
	Pedestrian Pedestrian `yaml:"pedestrian"`         // 行人运动状态
	Signal     Signal     `yaml:"signal"`             // 信号灯配时
	Scenario   Scenario   `yaml:"scenario,omitempty"` // 场景
}
