package cleanup

// Package cleanup removes leftover cover images from a download folder
// once their artwork has been embedded. Deletion is planned first so the
// CLI can show a dry run or ask for confirmation before anything is
// removed.
