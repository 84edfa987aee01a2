package types

import "fmt"

// ObjectRef identifies one object in the remote store.
type ObjectRef struct {
	Bucket string
	Key    string
}

// URI returns the s3:// form of the reference.
func (r ObjectRef) URI() string {
	return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key)
}
