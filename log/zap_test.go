package log

import "testing"

func TestInit(t *testing.T) {
	cfg := Config{
		STDERR:     true,
		Level:      0,
		MaxAge:     1,
		MaxSize:    1,
		MaxBackups: 1,
	}

	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Sugar.Info("zap log", "success", true, 1)
	Sugar.Infof("zap log success %t %d", true, 1)
	Sugar.Infow("zap log", "success", true)
}

func TestInitNoSyncer(t *testing.T) {
	if err := Init(Config{}); err == nil {
		t.Error("Init() expected error without any write syncer")
	}
}
