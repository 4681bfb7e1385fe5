// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - call.*
//   - caller.*
//   - operator.*
//
// Semantics used across the package:
//
//   - Frame: binary audio frame payload.
//   - Fragment: append-only text piece emitted in stream order, not yet a
//     complete utterance.
//   - Message: a finalized transcript message appended to the call log.
//
// call events
//
//   - CallConnecting (call.connecting): transport dial started.
//   - CallConnected (call.connected): setup acknowledged, audio unlocked.
//   - CallEnded (call.ended): call finalized, duration known.
//   - CallFailed (call.failed): terminal transport or device failure.
//
// caller events
//
//   - CallerAudioFrame (caller.audio_frame): encoded caller audio frame
//     handed to the transport.
//   - CallerFragment (caller.fragment): caller transcription fragment
//     buffered toward the next message.
//   - CallerMessage (caller.message): finalized caller transcript message.
//
// operator events
//
//   - OperatorAudioFrame (operator.audio_frame): operator audio frame
//     enqueued for playback.
//   - OperatorSpeakingStarted (operator.speaking_started): playback queue
//     became non-empty.
//   - OperatorSpeakingEnded (operator.speaking_ended): playback queue
//     drained.
//   - OperatorFragment (operator.fragment): operator text fragment buffered
//     toward the next turn message.
//   - OperatorMessage (operator.message): finalized operator transcript
//     message, flushed on a turn boundary.
package events
