package server

import (
	"github.com/SherlockGy/linekv/lib/store"
	"github.com/SherlockGy/linekv/server/protocol"
)

// Execute runs one parsed command against the store and returns the result
// to be rendered by the reply encoder. It never touches the connection:
// the handler owns all I/O. User-level conditions (unknown command, wrong
// type, missing key) are ordinary results, not errors.
func Execute(cmd protocol.Command, st store.IStore) protocol.Result {
	switch cmd.Type {
	case protocol.CmdSet:
		if err := st.Set(cmd.Key, cmd.Value); err != nil {
			return errResult(err)
		}
		return protocol.Result{Type: protocol.ROK}

	case protocol.CmdGet:
		value, loaded, err := st.Get(cmd.Key)
		if err != nil {
			return errResult(err)
		}
		if !loaded {
			return protocol.Result{Type: protocol.RNotFound}
		}
		return protocol.Result{Type: protocol.RValue, Value: value}

	case protocol.CmdDel:
		removed, err := st.Delete(cmd.Args...)
		if err != nil {
			return errResult(err)
		}
		return protocol.Result{Type: protocol.RDeleted, N: removed}

	case protocol.CmdKeys:
		keys, err := st.Keys()
		if err != nil {
			return errResult(err)
		}
		return protocol.Result{Type: protocol.RKeys, Items: keys}

	case protocol.CmdLPush:
		length, err := st.LPush(cmd.Key, cmd.Args...)
		if err != nil {
			return errResult(err)
		}
		return protocol.Result{Type: protocol.RInt, N: length}

	case protocol.CmdLRange:
		values, err := st.LRange(cmd.Key, cmd.Start, cmd.Stop)
		if err != nil {
			return errResult(err)
		}
		return protocol.Result{Type: protocol.RList, Items: values}

	case protocol.CmdQuit:
		return protocol.Result{Type: protocol.RBye}

	case protocol.CmdPing:
		return protocol.Result{Type: protocol.RPong}

	default:
		return protocol.Result{Type: protocol.RUnknownCommand}
	}
}

// errResult maps a store error to its protocol result.
func errResult(err error) protocol.Result {
	if store.IsWrongType(err) {
		return protocol.Result{Type: protocol.RWrongType}
	}
	return protocol.Result{Type: protocol.RError, Err: err.Error()}
}
