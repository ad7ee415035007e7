package main

import (
	"k8s.io/klog"
)

// klogAdapter routes the telegram client's logging into klog.
type klogAdapter struct {
}

func (*klogAdapter) Infoln(v ...interface{}) {
	klog.V(1).Infoln(v...)
}

func (*klogAdapter) Infof(format string, v ...interface{}) {
	klog.V(1).Infof(format, v...)
}

func (*klogAdapter) Errorln(v ...interface{}) {
	klog.Errorln(v...)
}

func (*klogAdapter) Errorf(format string, v ...interface{}) {
	klog.Errorf(format, v...)
}
