package pedestrian

import "github.com/sirupsen/logrus"

// log 行人模块的日志记录器
var log = logrus.WithField("module", "pedestrian")
