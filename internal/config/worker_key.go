package config

type WorkerKeyStruct struct {
	PersistSnapshotQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistSnapshotQueue: "persist_schedule_snapshot_queue",
}
