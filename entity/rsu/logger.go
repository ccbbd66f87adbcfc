package rsu

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "rsu")
