package enums

type SuccessFailureStatus int

const (
	StatusSuccess SuccessFailureStatus = 1
	StatusFailure SuccessFailureStatus = 2
)

func (s SuccessFailureStatus) Value() int {
	return int(s)
}

func (s SuccessFailureStatus) Description() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	default:
		return ""
	}
}

func (s SuccessFailureStatus) Valid() bool {
	return s == StatusSuccess || s == StatusFailure
}

func (s SuccessFailureStatus) MarshalJSON() ([]byte, error) {
	return MarshalBaseEnum(s)
}

func (s *SuccessFailureStatus) UnmarshalJSON(data []byte) error {
	v, err := unmarshalValue(data, "status", func(v int) bool { return SuccessFailureStatus(v).Valid() })
	if err != nil {
		return err
	}
	*s = SuccessFailureStatus(v)
	return nil
}
