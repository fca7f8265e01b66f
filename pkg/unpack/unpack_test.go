package unpack_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/gulf/pkg/transport"
	"github.com/williamokano/gulf/pkg/transport/mocks"
	"github.com/williamokano/gulf/pkg/unpack"
)

func TestPlan_Sequence(t *testing.T) {
	t.Run("no_hooks", func(t *testing.T) {
		p := unpack.Plan{RemoteArchive: "/srv/app/gulf.zip"}

		assert.Equal(t, []string{
			"cd /srv/app",
			"unzip -o /srv/app/gulf.zip",
			"rm /srv/app/gulf.zip",
		}, p.Sequence())
	})

	t.Run("hooks_keep_their_order", func(t *testing.T) {
		p := unpack.Plan{
			RemoteArchive: "/srv/app/gulf.zip",
			Pre:           []string{"systemctl stop app", "cp -r . ../backup"},
			Post:          []string{"npm ci", "systemctl start app"},
		}

		assert.Equal(t, []string{
			"cd /srv/app",
			"systemctl stop app",
			"cp -r . ../backup",
			"unzip -o /srv/app/gulf.zip",
			"rm /srv/app/gulf.zip",
			"npm ci",
			"systemctl start app",
		}, p.Sequence())
	})

	t.Run("root_directory", func(t *testing.T) {
		p := unpack.Plan{RemoteArchive: "/gulf.zip"}
		assert.Equal(t, "cd /", p.Sequence()[0])
	})

	t.Run("commands_are_verbatim", func(t *testing.T) {
		p := unpack.Plan{
			RemoteArchive: "/srv/app/gulf.zip",
			Post:          []string{"echo 'done' | tee -a deploy.log"},
		}
		seq := p.Sequence()
		assert.Equal(t, "echo 'done' | tee -a deploy.log", seq[len(seq)-1])
	})
}

func TestPlan_Command(t *testing.T) {
	p := unpack.Plan{
		RemoteArchive: "/srv/app/gulf.zip",
		Post:          []string{"systemctl restart app"},
	}

	assert.Equal(t,
		"cd /srv/app && unzip -o /srv/app/gulf.zip && rm /srv/app/gulf.zip && systemctl restart app",
		p.Command(),
	)
}

func TestUnpacker_Run(t *testing.T) {
	ctx := context.Background()
	plan := unpack.Plan{RemoteArchive: "/srv/app/gulf.zip", Pre: []string{"make stop"}}

	t.Run("success", func(t *testing.T) {
		tr := mocks.NewMockTransport(t)
		tr.On("Exec", mock.Anything, plan.Command()).Return(nil).Once()

		assert.NoError(t, unpack.New(tr, zerolog.Nop()).Run(ctx, plan))
	})

	t.Run("remote_exit_status", func(t *testing.T) {
		tr := mocks.NewMockTransport(t)
		tr.On("Exec", mock.Anything, mock.Anything).Return(transport.CommandFailed(2, nil)).Once()

		err := unpack.New(tr, zerolog.Nop()).Run(ctx, plan)
		require.Error(t, err)
		assert.ErrorIs(t, err, transport.ErrInflateFailed)
		assert.NotErrorIs(t, err, transport.ErrCommandFailed)
		assert.Equal(t, 2, transport.ExitCode(err))
		assert.Equal(t, "Inflate failed (exit code 2)", err.Error())
	})

	t.Run("transport_error", func(t *testing.T) {
		cause := errors.New("broken pipe")
		tr := mocks.NewMockTransport(t)
		tr.On("Exec", mock.Anything, mock.Anything).Return(cause).Once()

		err := unpack.New(tr, zerolog.Nop()).Run(ctx, plan)
		assert.ErrorIs(t, err, transport.ErrInflateFailed)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, transport.NoExitCode, transport.ExitCode(err))
	})
}
