package storage

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

func encodeRecord(record CourseRecord) ([]byte, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode course %s: %w", record.ID, err)
	}
	return raw, nil
}

func decodeRecord(raw []byte) (CourseRecord, error) {
	var record CourseRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return CourseRecord{}, fmt.Errorf("decode course snapshot: %w", err)
	}
	if record.Assignments == nil {
		record.Assignments = map[uuid.UUID]string{}
	}
	return record, nil
}
