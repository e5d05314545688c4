package processing

// Source produces the poses to evaluate and closes the channel when done.
type Source interface {
	ReadPoses(chan<- Pose)
}

// Target consumes results until the channel is closed.
type Target interface {
	WriteResults(<-chan Result)
}
