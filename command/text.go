package command

const helpText = `Sections in square brackets [] are optional
Arguments in angle brackets <> are required
a[dd]       <SAMPLE PATH> Add a new track
r[emove]                  Remove the selected track
s[elect]    <TRACK NUM>   Change the selected track
t[oggle]    <NOTE NUM>    Toggle a note in the selected track
l[ength]    <BEATS>       Set the length of a track in a number of beats
d[ivisions] <DIVISIONS>   Set the number of notes per beat
b[pm]       <BPM>         Set the tempo (20-300)
p[rint]                   Show all the tracks
v[olume]    <HALVINGS>    Set the master volume (0 full, -1 half)
m[ute]                    Mute or unmute all output
help                      Show this help message
about                     About this program
q[uit]                    Exit the program
Samples are .wav, .flac or .mp3 files, or midi:<note>[@<channel>]`

const aboutText = `drumcli
Make drum beats at the command line!
A step sequencer: tracks loop a sample over a few beats,
and each note on the grid triggers it once per loop.`
