package types

// MatchRecord is one recorded occurrence of an identifier in a file
// extracted from an archive.
type MatchRecord struct {
	Identifier string // literal token that matched
	ZipFile    string // base name of the archive the file came from
	FileInZip  string // path of the matching file relative to the extraction root
	LocalPath  string // absolute path of the extracted file on disk
	S3Path     string // originating remote path (s3://bucket/key), "Unknown" if not supplied
}
